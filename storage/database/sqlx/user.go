package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edutrack/portal/core/user"
)

type userRow struct {
	ID           string      `db:"id"`
	Name         null.String `db:"name"`
	Username     null.String `db:"username"`
	Email        null.String `db:"email"`
	Role         null.String `db:"role"`
	IsActive     null.Bool   `db:"is_active"`
	PasswordHash null.Bytes  `db:"password_hash"`
	CreatedAt    null.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
	LastLogin    null.Time   `db:"last_login"`
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name.String,
		Username:     r.Username.String,
		Email:        r.Email.String,
		Role:         user.Role(r.Role.String),
		IsActive:     r.IsActive.Ptr(),
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
		LastLogin:    r.LastLogin.Time,
	}
}

func pack(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         null.NewString(usr.Name, usr.Name != ""),
		Username:     null.NewString(usr.Username, usr.Username != ""),
		Email:        null.NewString(usr.Email, usr.Email != ""),
		Role:         null.NewString(usr.Role.String(), usr.Role != ""),
		IsActive:     null.BoolFromPtr(usr.IsActive),
		PasswordHash: null.NewBytes(usr.PasswordHash, usr.PasswordHash != nil),
		CreatedAt:    null.NewTime(usr.CreatedAt.UTC(), !usr.CreatedAt.IsZero()),
		UpdatedAt:    null.NewTime(usr.UpdatedAt.UTC(), !usr.UpdatedAt.IsZero()),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS (SELECT 1 FROM user_account WHERE (username = $1 OR (email <> '' AND email = $2))`
	args := []interface{}{username, email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		inQuery, inArgs, err := sqlx.In(" AND id NOT IN (?)", ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		query += inQuery
		args = append(args, inArgs...)
	}
	query += ")"
	query = repo.db.Rebind(query)

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if exists {
		// figure out which field collides
		var unameTaken bool
		q := repo.db.Rebind(`SELECT EXISTS (SELECT 1 FROM user_account WHERE username = ?)`)
		if err := repo.db.GetContext(ctx, &unameTaken, q, username); err != nil {
			return errors.Wrap(err, "checking username uniqueness")
		}
		if unameTaken {
			return user.ErrUsernameExists
		}
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	row := pack(usr)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO user_account (id, name, username, email, role, is_active, password_hash, created_at, updated_at, last_login)
		VALUES (:id, :name, :username, :email, :role, :is_active, :password_hash, :created_at, :updated_at, :last_login)`,
		row,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM user_account ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.unpack())
	}
	return users, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		query string
		args  []interface{}
	)
	switch {
	case filter.ID != "":
		query = `SELECT * FROM user_account WHERE id = $1`
		args = []interface{}{filter.ID}
	case filter.Username != "":
		query = `SELECT * FROM user_account WHERE username = $1 AND role = $2`
		args = []interface{}{filter.Username, filter.Role.String()}
	case filter.UsernameOrEmail != "":
		query = `SELECT * FROM user_account WHERE username = $1 OR (email <> '' AND email = $1)`
		args = []interface{}{filter.UsernameOrEmail}
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user")
	}
	return row.unpack(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive ...*bool) (user.User, error) {
	row := pack(usr)
	if len(isActive) > 0 && isActive[0] != nil {
		row.IsActive = null.BoolFromPtr(isActive[0])
	} else {
		row.IsActive = null.Bool{}
	}
	if !row.UpdatedAt.Valid {
		row.UpdatedAt = null.TimeFrom(time.Now().UTC())
	}

	// COALESCE keeps columns absent from the partial update unchanged
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE user_account SET
			name          = COALESCE(:name, name),
			username      = COALESCE(:username, username),
			email         = COALESCE(:email, email),
			role          = COALESCE(:role, role),
			is_active     = COALESCE(:is_active, is_active),
			password_hash = COALESCE(:password_hash, password_hash),
			updated_at    = COALESCE(:updated_at, updated_at),
			last_login    = COALESCE(:last_login, last_login)
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM user_account WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
