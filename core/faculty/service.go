package faculty

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/edutrack/portal/core/user"
)

var ErrNotFound = errors.New("faculty not found")

type (
	Repository interface {
		CreateFaculty(ctx context.Context, fac Faculty) (Faculty, error)
		QueryAllFaculties(ctx context.Context) ([]Faculty, error)
		GetFacultyByID(ctx context.Context, id string) (Faculty, error)
		GetFacultyByUserID(ctx context.Context, userID string) (Faculty, error)
		DeleteFacultiesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Register(ctx context.Context, nf NewFaculty) (Faculty, error)
		QueryAll(ctx context.Context) ([]Faculty, error)
		GetByID(ctx context.Context, id string) (Faculty, error)
		GetByUserID(ctx context.Context, userID string) (Faculty, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo   Repository
		usrSvc user.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service) *service {
	return &service{repo: repo, usrSvc: usrSvc}
}

// Register creates the faculty record and provisions its portal account.
func (svc *service) Register(ctx context.Context, nf NewFaculty) (Faculty, error) {
	if err := nf.Validate(); err != nil {
		return Faculty{}, err
	}

	pwd := nf.InitialPassword()
	if err := svc.usrSvc.CheckUniqueness(nf.Username, nf.Email); err != nil {
		return Faculty{}, err
	}
	usr, err := svc.usrSvc.Create(ctx, user.NewUser{
		Name:            nf.Name,
		Username:        nf.Username,
		Email:           nf.Email,
		Role:            user.RoleFaculty,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		return Faculty{}, errors.Wrap(err, "creating faculty account")
	}

	now := time.Now().UTC()
	fac := Faculty{
		UserID:    usr.ID,
		Name:      nf.Name,
		Subject:   nf.Subject,
		Email:     nf.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateFaculty(ctx, fac)
}

func (svc *service) QueryAll(ctx context.Context) ([]Faculty, error) {
	return svc.repo.QueryAllFaculties(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Faculty, error) {
	return svc.repo.GetFacultyByID(ctx, id)
}

func (svc *service) GetByUserID(ctx context.Context, userID string) (Faculty, error) {
	return svc.repo.GetFacultyByUserID(ctx, userID)
}

// Delete removes faculty records and their accounts.
func (svc *service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	userIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		fac, err := svc.repo.GetFacultyByID(ctx, id)
		if err != nil {
			return err
		}
		if fac.UserID != "" {
			userIDs = append(userIDs, fac.UserID)
		}
	}

	if err := svc.repo.DeleteFacultiesByID(ctx, ids...); err != nil {
		return errors.Wrap(err, "deleting faculties")
	}
	if len(userIDs) > 0 {
		if err := svc.usrSvc.Delete(ctx, userIDs...); err != nil {
			return errors.Wrap(err, "deleting faculty accounts")
		}
	}
	return nil
}
