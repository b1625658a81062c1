package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/edutrack/portal/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckUsernameUniqueness(_ context.Context, username, email string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := func(usr user.User) bool {
		for _, ex := range excludedUsers {
			if usr.ID == ex.ID {
				return true
			}
		}
		return false
	}
	for _, usr := range repo.query() {
		if excluded(usr) {
			continue
		}
		if usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = uuid.New().String()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if usr, ok := repo.db.table[filter.ID]; ok {
			return *usr, nil
		}
	case filter.Username != "":
		for _, usr := range repo.query() {
			if usr.Username == filter.Username && usr.Role == filter.Role {
				return usr, nil
			}
		}
	case filter.UsernameOrEmail != "":
		for _, usr := range repo.query() {
			if usr.Username == filter.UsernameOrEmail || (usr.Email != "" && usr.Email == filter.UsernameOrEmail) {
				return usr, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User, isActive ...*bool) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Username != "" {
		orig.Username = usr.Username
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.Role != "" {
		orig.Role = usr.Role
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		orig.LastLogin = usr.LastLogin
	}
	if !usr.UpdatedAt.IsZero() {
		orig.UpdatedAt = usr.UpdatedAt
	}
	if len(isActive) > 0 && isActive[0] != nil {
		orig.IsActive = isActive[0]
	}
	return *orig, nil
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
