package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/edutrack/portal/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].RollNo < students[j].RollNo })
	return students
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stu.ID = uuid.New().String()
	repo.db.table[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stu, ok := repo.db.table[id]; ok {
		return *stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByUserID(_ context.Context, userID string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stu := range repo.db.table {
		if stu.UserID == userID {
			return *stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FindStudentsByGuardian(_ context.Context, guardianUsername string) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0)
	for _, stu := range repo.query() {
		if stu.GuardianUsername != "" && stu.GuardianUsername == guardianUsername {
			students = append(students, stu)
		}
	}
	return students, nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
