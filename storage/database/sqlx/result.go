package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edutrack/portal/core/result"
)

type resultRow struct {
	ID         string    `db:"id"`
	StudentID  string    `db:"student_id"`
	Subject    string    `db:"subject"`
	Marks      int       `db:"marks"`
	Grade      string    `db:"grade"`
	RecordedAt null.Time `db:"recorded_at"`
}

func (r resultRow) unpack() result.Result {
	return result.Result{
		ID:         r.ID,
		StudentID:  r.StudentID,
		Subject:    r.Subject,
		Marks:      r.Marks,
		Grade:      r.Grade,
		RecordedAt: r.RecordedAt.Time,
	}
}

type resultRepository struct {
	db *sqlx.DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *sqlx.DB) *resultRepository {
	return &resultRepository{db: db}
}

func (repo resultRepository) CreateResult(ctx context.Context, res result.Result) (result.Result, error) {
	res.ID = uuid.New().String()
	row := resultRow{
		ID:         res.ID,
		StudentID:  res.StudentID,
		Subject:    res.Subject,
		Marks:      res.Marks,
		Grade:      res.Grade,
		RecordedAt: null.NewTime(res.RecordedAt.UTC(), !res.RecordedAt.IsZero()),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO result (id, student_id, subject, marks, grade, recorded_at)
		VALUES (:id, :student_id, :subject, :marks, :grade, :recorded_at)`,
		row,
	)
	if err != nil {
		return result.Result{}, errors.Wrap(err, "inserting result")
	}
	return res, nil
}

func (repo resultRepository) QueryResultsByStudentID(ctx context.Context, studentID string) ([]result.Result, error) {
	var rows []resultRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM result WHERE student_id = $1 ORDER BY recorded_at`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	results := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.unpack())
	}
	return results, nil
}

func (repo resultRepository) DeleteResultsByStudentID(ctx context.Context, studentIDs ...string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM result WHERE student_id IN (?)`, studentIDs)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting results")
	}
	return nil
}
