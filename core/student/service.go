package student

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/attendance"
	"github.com/edutrack/portal/core/result"
	"github.com/edutrack/portal/core/user"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, stu Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (Student, error)
		FindStudentsByGuardian(ctx context.Context, guardianUsername string) ([]Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Enroll(ctx context.Context, ns NewStudent) (Student, error)
		QueryAll(ctx context.Context) ([]Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		GetByUserID(ctx context.Context, userID string) (Student, error)
		FindByGuardian(ctx context.Context, guardianUsername string) ([]Student, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo    Repository
		usrSvc  user.Service
		attSvc  attendance.Service
		resSvc  result.Service
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	usrSvc user.Service,
	attSvc attendance.Service,
	resSvc result.Service,
	mailSvc core.EmailService,
) *service {
	return &service{
		repo:    repo,
		usrSvc:  usrSvc,
		attSvc:  attSvc,
		resSvc:  resSvc,
		mailSvc: mailSvc,
	}
}

// Enroll creates the student record and provisions its portal account.
// The generated credentials are mailed out when an email address is known.
func (svc *service) Enroll(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}

	uname := ns.Username()
	pwd := ns.InitialPassword()
	if err := svc.usrSvc.CheckUniqueness(uname, ns.Email); err != nil {
		return Student{}, err
	}
	usr, err := svc.usrSvc.Create(ctx, user.NewUser{
		Name:            ns.Name,
		Username:        uname,
		Email:           ns.Email,
		Role:            user.RoleStudent,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student account")
	}

	now := time.Now().UTC()
	stu := Student{
		UserID:           usr.ID,
		Name:             ns.Name,
		RollNo:           ns.RollNo,
		Branch:           ns.Branch,
		Standard:         ns.Standard,
		GuardianUsername: ns.GuardianUsername,
		Email:            ns.Email,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	stu, err = svc.repo.CreateStudent(ctx, stu)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}

	if stu.Email != "" {
		svc.sendWelcomeMail(stu, uname, pwd)
	}
	return stu, nil
}

func (svc *service) sendWelcomeMail(stu Student, uname, pwd string) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: stu.Name, Address: stu.Email}},
		Subject:      "Welcome to the Student Portal",
		TemplateName: "welcome",
		TemplateData: struct {
			Student  Student
			Username string
			Password string
		}{stu, uname, pwd},
	})
}

func (svc *service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetByUserID(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudentByUserID(ctx, userID)
}

func (svc *service) FindByGuardian(ctx context.Context, guardianUsername string) ([]Student, error) {
	return svc.repo.FindStudentsByGuardian(ctx, core.CleanString(guardianUsername, true /* lower */))
}

// Delete removes students along with their attendance, results and accounts.
func (svc *service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	userIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		stu, err := svc.repo.GetStudentByID(ctx, id)
		if err != nil {
			return err
		}
		if stu.UserID != "" {
			userIDs = append(userIDs, stu.UserID)
		}
	}

	if err := svc.attSvc.DeleteByStudent(ctx, ids...); err != nil {
		return errors.Wrap(err, "deleting attendance records")
	}
	if err := svc.resSvc.DeleteByStudent(ctx, ids...); err != nil {
		return errors.Wrap(err, "deleting results")
	}
	if err := svc.repo.DeleteStudentsByID(ctx, ids...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	if len(userIDs) > 0 {
		if err := svc.usrSvc.Delete(ctx, userIDs...); err != nil {
			return errors.Wrap(err, "deleting student accounts")
		}
	}
	return nil
}
