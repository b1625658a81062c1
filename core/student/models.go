package student

import (
	"strings"
	"time"

	"github.com/edutrack/portal/core"
)

type Student struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	RollNo           string    `json:"roll_no"`
	Branch           string    `json:"branch"`
	Standard         string    `json:"standard"`
	GuardianUsername string    `json:"guardian_username,omitempty"`
	Email            string    `json:"email,omitempty"`
	CreatedAt        time.Time `json:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at"` // UTC
}

// NewStudent contains information needed to enroll a student.
// A portal account is provisioned on enrollment: the username is the
// lowercased roll number and the initial password is derived from the name.
type NewStudent struct {
	Name             string `json:"name" validate:"required"`
	RollNo           string `json:"roll_no" validate:"required,alphanum_"`
	Branch           string `json:"branch" validate:"required"`
	Standard         string `json:"standard" validate:"required"`
	GuardianUsername string `json:"guardian_username" validate:"omitempty,min=3,alphanum_"`
	Email            string `json:"email" validate:"omitempty,email"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNo = core.CleanString(ns.RollNo, true /* lower */)
	ns.Branch = core.CleanString(ns.Branch, true /* lower */)
	ns.Standard = core.CleanString(ns.Standard, true /* lower */)
	ns.GuardianUsername = core.CleanString(ns.GuardianUsername, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.Validate.Struct(ns)
}

// Username derives the portal login from the roll number.
func (ns *NewStudent) Username() string {
	return strings.ToLower(ns.RollNo)
}

// InitialPassword derives the first-login password from the student's name.
func (ns *NewStudent) InitialPassword() string {
	return strings.ToLower(strings.ReplaceAll(ns.Name, " ", "")) + "123"
}
