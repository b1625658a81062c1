package result

import (
	"context"
	"time"
)

type (
	Repository interface {
		CreateResult(ctx context.Context, res Result) (Result, error)
		QueryResultsByStudentID(ctx context.Context, studentID string) ([]Result, error)
		DeleteResultsByStudentID(ctx context.Context, studentIDs ...string) error
	}

	Service interface {
		Create(ctx context.Context, nr NewResult) (Result, error)
		ListByStudent(ctx context.Context, studentID string) ([]Result, error)
		DeleteByStudent(ctx context.Context, studentIDs ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nr NewResult) (Result, error) {
	if err := nr.Validate(); err != nil {
		return Result{}, err
	}
	res := Result{
		StudentID:  nr.StudentID,
		Subject:    nr.Subject,
		Marks:      nr.Marks,
		Grade:      Grade(nr.Marks),
		RecordedAt: time.Now().UTC(),
	}
	return svc.repo.CreateResult(ctx, res)
}

func (svc *service) ListByStudent(ctx context.Context, studentID string) ([]Result, error) {
	return svc.repo.QueryResultsByStudentID(ctx, studentID)
}

func (svc *service) DeleteByStudent(ctx context.Context, studentIDs ...string) error {
	return svc.repo.DeleteResultsByStudentID(ctx, studentIDs...)
}
