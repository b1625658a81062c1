package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edutrack/portal/core/student"
)

type studentRow struct {
	ID               string      `db:"id"`
	UserID           null.String `db:"user_id"`
	Name             string      `db:"name"`
	RollNo           string      `db:"roll_no"`
	Branch           string      `db:"branch"`
	Standard         string      `db:"standard"`
	GuardianUsername null.String `db:"guardian_username"`
	Email            null.String `db:"email"`
	CreatedAt        null.Time   `db:"created_at"`
	UpdatedAt        null.Time   `db:"updated_at"`
}

func (r studentRow) unpack() student.Student {
	return student.Student{
		ID:               r.ID,
		UserID:           r.UserID.String,
		Name:             r.Name,
		RollNo:           r.RollNo,
		Branch:           r.Branch,
		Standard:         r.Standard,
		GuardianUsername: r.GuardianUsername.String,
		Email:            r.Email.String,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
	}
}

func packStudent(stu student.Student) studentRow {
	return studentRow{
		ID:               stu.ID,
		UserID:           null.NewString(stu.UserID, stu.UserID != ""),
		Name:             stu.Name,
		RollNo:           stu.RollNo,
		Branch:           stu.Branch,
		Standard:         stu.Standard,
		GuardianUsername: null.NewString(stu.GuardianUsername, stu.GuardianUsername != ""),
		Email:            null.NewString(stu.Email, stu.Email != ""),
		CreatedAt:        null.NewTime(stu.CreatedAt.UTC(), !stu.CreatedAt.IsZero()),
		UpdatedAt:        null.NewTime(stu.UpdatedAt.UTC(), !stu.UpdatedAt.IsZero()),
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	stu.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (id, user_id, name, roll_no, branch, standard, guardian_username, email, created_at, updated_at)
		VALUES (:id, :user_id, :name, :roll_no, :branch, :standard, :guardian_username, :email, :created_at, :updated_at)`,
		packStudent(stu),
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return stu, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY roll_no`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.unpack())
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "getting student")
	}
	return row.unpack(), nil
}

func (repo studentRepository) GetStudentByUserID(ctx context.Context, userID string) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE user_id = $1`, userID); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "getting student by user ID")
	}
	return row.unpack(), nil
}

func (repo studentRepository) FindStudentsByGuardian(ctx context.Context, guardianUsername string) ([]student.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM student WHERE guardian_username = $1 ORDER BY roll_no`, guardianUsername)
	if err != nil {
		return nil, errors.Wrap(err, "querying students by guardian")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.unpack())
	}
	return students, nil
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}
