package faculty

import (
	"strings"
	"time"

	"github.com/edutrack/portal/core"
)

type Faculty struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewFaculty contains information needed to register a faculty member.
type NewFaculty struct {
	Name     string `json:"name" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty"`
}

func (nf *NewFaculty) Validate() error {
	nf.Name = core.CleanString(nf.Name)
	nf.Subject = core.CleanString(nf.Subject)
	nf.Username = core.CleanString(nf.Username, true /* lower */)
	nf.Email = core.CleanString(nf.Email, true /* lower */)
	return core.Validate.Struct(nf)
}

// InitialPassword returns the provided password, or derives one from the name.
func (nf *NewFaculty) InitialPassword() string {
	if nf.Password != "" {
		return nf.Password
	}
	return strings.ToLower(strings.ReplaceAll(nf.Name, " ", "")) + "123"
}
