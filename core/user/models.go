package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/edutrack/portal/core"
)

// Role is the closed set of portal roles. A user holds exactly one.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleFaculty Role = "faculty"
)

var AllRoles = []Role{RoleAdmin, RoleStudent, RoleParent, RoleFaculty}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     *bool     `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) SetActive(active bool) {
	u.IsActive = &active
}

func (u *User) Active() bool {
	return u.IsActive != nil && *u.IsActive
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsParent() bool  { return u.Role == RoleParent }
func (u *User) IsFaculty() bool { return u.Role == RoleFaculty }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"username" validate:"required,min=3,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            Role   `json:"role" validate:"required,role"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(svc Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string `json:"name"`
	Username        string `json:"username" validate:"omitempty,min=3,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc Service) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}
	if uname := core.CleanString(uu.Username, true /* lower */); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Username, uu.Email, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }

// GetFilter selects a single user. Fields are tried in order: ID,
// Username+Role, UsernameOrEmail.
type GetFilter struct {
	ID              string
	Username        string
	Role            Role
	UsernameOrEmail string
}
