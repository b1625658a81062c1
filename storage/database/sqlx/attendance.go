package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edutrack/portal/core/attendance"
)

type attendanceRow struct {
	ID        string      `db:"id"`
	StudentID string      `db:"student_id"`
	Date      string      `db:"date"`
	Time      null.String `db:"time"`
	Subject   string      `db:"subject"`
	Status    string      `db:"status"`
	CreatedAt null.Time   `db:"created_at"`
}

func (r attendanceRow) unpack() attendance.Record {
	return attendance.Record{
		ID:        r.ID,
		StudentID: r.StudentID,
		Date:      r.Date,
		Time:      r.Time.String,
		Subject:   r.Subject,
		Status:    attendance.Status(r.Status),
		CreatedAt: r.CreatedAt.Time,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.ID = uuid.New().String()
	row := attendanceRow{
		ID:        rec.ID,
		StudentID: rec.StudentID,
		Date:      rec.Date,
		Time:      null.NewString(rec.Time, rec.Time != ""),
		Subject:   rec.Subject,
		Status:    string(rec.Status),
		CreatedAt: null.NewTime(rec.CreatedAt.UTC(), !rec.CreatedAt.IsZero()),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO attendance_record (id, student_id, date, time, subject, status, created_at)
		VALUES (:id, :student_id, :date, :time, :subject, :status, :created_at)`,
		row,
	)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo attendanceRepository) QueryRecordsByStudentID(ctx context.Context, studentID string) ([]attendance.Record, error) {
	var rows []attendanceRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM attendance_record WHERE student_id = $1 ORDER BY date, created_at`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.unpack())
	}
	return records, nil
}

func (repo attendanceRepository) DeleteRecordsByStudentID(ctx context.Context, studentIDs ...string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM attendance_record WHERE student_id IN (?)`, studentIDs)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting attendance records")
	}
	return nil
}
