package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/edutrack/portal/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec.ID = uuid.New().String()
	repo.db.table[rec.ID] = &rec
	repo.db.order = append(repo.db.order, rec.ID)
	return rec, nil
}

func (repo *attendanceRepository) QueryRecordsByStudentID(_ context.Context, studentID string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.Record, 0)
	for _, id := range repo.db.order {
		if rec, ok := repo.db.table[id]; ok && rec.StudentID == studentID {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (repo *attendanceRepository) DeleteRecordsByStudentID(_ context.Context, studentIDs ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, sid := range studentIDs {
		order := repo.db.order[:0]
		for _, id := range repo.db.order {
			if rec, ok := repo.db.table[id]; ok && rec.StudentID == sid {
				delete(repo.db.table, id)
				continue
			}
			order = append(order, id)
		}
		repo.db.order = order
	}
	return nil
}
