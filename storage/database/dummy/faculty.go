package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/edutrack/portal/core/faculty"
)

type facultyRepository struct {
	db *facultyTable
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *DB) *facultyRepository {
	return &facultyRepository{db: db.faculty}
}

func (repo *facultyRepository) CreateFaculty(_ context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	fac.ID = uuid.New().String()
	repo.db.table[fac.ID] = &fac
	return fac, nil
}

func (repo *facultyRepository) QueryAllFaculties(_ context.Context) ([]faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	faculties := make([]faculty.Faculty, 0, len(repo.db.table))
	for _, f := range repo.db.table {
		faculties = append(faculties, *f)
	}
	sort.Slice(faculties, func(i, j int) bool { return faculties[i].Name < faculties[j].Name })
	return faculties, nil
}

func (repo *facultyRepository) GetFacultyByID(_ context.Context, id string) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fac, ok := repo.db.table[id]; ok {
		return *fac, nil
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *facultyRepository) GetFacultyByUserID(_ context.Context, userID string) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, fac := range repo.db.table {
		if fac.UserID == userID {
			return *fac, nil
		}
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *facultyRepository) DeleteFacultiesByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
