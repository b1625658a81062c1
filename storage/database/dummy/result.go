package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/edutrack/portal/core/result"
)

type resultRepository struct {
	db *resultTable
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) *resultRepository {
	return &resultRepository{db: db.result}
}

func (repo *resultRepository) CreateResult(_ context.Context, res result.Result) (result.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	res.ID = uuid.New().String()
	repo.db.table[res.ID] = &res
	repo.db.order = append(repo.db.order, res.ID)
	return res, nil
}

func (repo *resultRepository) QueryResultsByStudentID(_ context.Context, studentID string) ([]result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]result.Result, 0)
	for _, id := range repo.db.order {
		if res, ok := repo.db.table[id]; ok && res.StudentID == studentID {
			results = append(results, *res)
		}
	}
	return results, nil
}

func (repo *resultRepository) DeleteResultsByStudentID(_ context.Context, studentIDs ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, sid := range studentIDs {
		order := repo.db.order[:0]
		for _, id := range repo.db.order {
			if res, ok := repo.db.table[id]; ok && res.StudentID == sid {
				delete(repo.db.table, id)
				continue
			}
			order = append(order, id)
		}
		repo.db.order = order
	}
	return nil
}
