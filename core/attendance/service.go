package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/edutrack/portal/core"
)

var (
	ErrSundayHoliday = errors.New("cannot mark attendance on a Sunday (holiday)")

	sundayTag  = "notsunday"
	sundayText = "cannot mark attendance on a Sunday (holiday)"
)

func init() {
	_ = core.Validate.RegisterValidation("attstatus", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation("attstatus", "status must be one of: present, absent")
	core.RegisterCustomTranslation(sundayTag, sundayText)
}

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		QueryRecordsByStudentID(ctx context.Context, studentID string) ([]Record, error)
		DeleteRecordsByStudentID(ctx context.Context, studentIDs ...string) error
	}

	Service interface {
		Mark(ctx context.Context, nr NewRecord) (Record, error)
		ListByStudent(ctx context.Context, studentID string) ([]Record, error)
		MonthView(ctx context.Context, studentID string, year int, month time.Month, subject ...string) ([]DayCell, MonthlyStats, error)
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

// Mark records one lecture's attendance. Sundays are holidays and rejected.
func (svc *service) Mark(ctx context.Context, nr NewRecord) (Record, error) {
	if err := nr.Validate(); err != nil {
		return Record{}, err
	}
	date, err := time.Parse(DateLayout, nr.Date)
	if err != nil {
		return Record{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date"})
	}
	if date.Weekday() == time.Sunday {
		return Record{}, core.NewValidationError(ErrSundayHoliday, core.FieldError{Field: "date", Error: sundayText})
	}

	rec := Record{
		StudentID: nr.StudentID,
		Date:      nr.Date,
		Time:      nr.Time,
		Subject:   nr.Subject,
		Status:    nr.Status,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateRecord(ctx, rec)
}

func (svc *service) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return svc.repo.QueryRecordsByStudentID(ctx, studentID)
}

// MonthView fetches the student's records and derives the calendar and stats
// for the given month, optionally restricted to one subject.
func (svc *service) MonthView(ctx context.Context, studentID string, year int, month time.Month, subject ...string) ([]DayCell, MonthlyStats, error) {
	records, err := svc.repo.QueryRecordsByStudentID(ctx, studentID)
	if err != nil {
		return nil, MonthlyStats{}, errors.Wrap(err, "querying attendance records")
	}
	calendar, err := BuildCalendar(records, year, month, subject...)
	if err != nil {
		return nil, MonthlyStats{}, err
	}
	return calendar, Stats(calendar), nil
}

func (svc *service) DeleteByStudent(ctx context.Context, studentIDs ...string) error {
	return svc.repo.DeleteRecordsByStudentID(ctx, studentIDs...)
}
