package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edutrack/portal/core/faculty"
)

type facultyRow struct {
	ID        string      `db:"id"`
	UserID    null.String `db:"user_id"`
	Name      string      `db:"name"`
	Subject   string      `db:"subject"`
	Email     null.String `db:"email"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (r facultyRow) unpack() faculty.Faculty {
	return faculty.Faculty{
		ID:        r.ID,
		UserID:    r.UserID.String,
		Name:      r.Name,
		Subject:   r.Subject,
		Email:     r.Email.String,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

type facultyRepository struct {
	db *sqlx.DB
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *sqlx.DB) *facultyRepository {
	return &facultyRepository{db: db}
}

func (repo facultyRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return faculty.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo facultyRepository) CreateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	fac.ID = uuid.New().String()
	row := facultyRow{
		ID:        fac.ID,
		UserID:    null.NewString(fac.UserID, fac.UserID != ""),
		Name:      fac.Name,
		Subject:   fac.Subject,
		Email:     null.NewString(fac.Email, fac.Email != ""),
		CreatedAt: null.NewTime(fac.CreatedAt.UTC(), !fac.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(fac.UpdatedAt.UTC(), !fac.UpdatedAt.IsZero()),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO faculty (id, user_id, name, subject, email, created_at, updated_at)
		VALUES (:id, :user_id, :name, :subject, :email, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return faculty.Faculty{}, errors.Wrap(err, "inserting faculty")
	}
	return fac, nil
}

func (repo facultyRepository) QueryAllFaculties(ctx context.Context) ([]faculty.Faculty, error) {
	var rows []facultyRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM faculty ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying faculties")
	}
	faculties := make([]faculty.Faculty, 0, len(rows))
	for _, row := range rows {
		faculties = append(faculties, row.unpack())
	}
	return faculties, nil
}

func (repo facultyRepository) GetFacultyByID(ctx context.Context, id string) (faculty.Faculty, error) {
	var row facultyRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM faculty WHERE id = $1`, id); err != nil {
		return faculty.Faculty{}, repo.trapNoRowsErr(err, "getting faculty")
	}
	return row.unpack(), nil
}

func (repo facultyRepository) GetFacultyByUserID(ctx context.Context, userID string) (faculty.Faculty, error) {
	var row facultyRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM faculty WHERE user_id = $1`, userID); err != nil {
		return faculty.Faculty{}, repo.trapNoRowsErr(err, "getting faculty by user ID")
	}
	return row.unpack(), nil
}

func (repo facultyRepository) DeleteFacultiesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM faculty WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting faculties")
	}
	return nil
}
