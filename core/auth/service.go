package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/faculty"
	"github.com/edutrack/portal/core/student"
	"github.com/edutrack/portal/core/user"
)

var (
	// ErrInvalidCredentials covers both unknown (username, role) pairs and
	// password mismatches; callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// burned on unknown users so both failure paths hash a password
	dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

	nowFunc = time.Now // mockable
)

// Claims represents the authorization claims transmitted via a JWT.
// StandardClaims.Subject carries the user ID.
type Claims struct {
	jwt.StandardClaims
	Username    string    `json:"username,omitempty"`
	Role        user.Role `json:"role,omitempty"`
	StudentID   string    `json:"student_id,omitempty"`   // student; first linked student for parents
	StudentIDs  []string  `json:"student_ids,omitempty"`  // parent: every linked student
	SubjectName string    `json:"subject_name,omitempty"` // faculty
}

// Session is the result of a successful login: the signed token plus its
// plaintext claims for immediate client use.
type Session struct {
	Token  string `json:"token"`
	Claims Claims `json:"user"`
}

type (
	Service interface {
		Authenticate(ctx context.Context, username, password string, role user.Role) (Session, error)
		Verify(token string) (Claims, error)
		GenerateToken(claims Claims) (string, error)
		UserClaims(ctx context.Context, usr user.User) (Claims, error)
	}

	service struct {
		conf   *core.Config
		usrSvc user.Service
		stuSvc student.Service
		facSvc faculty.Service
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, usrSvc user.Service, stuSvc student.Service, facSvc faculty.Service) *service {
	return &service{
		conf:   conf,
		usrSvc: usrSvc,
		stuSvc: stuSvc,
		facSvc: facSvc,
	}
}

// Authenticate verifies a (username, password, role) triple and issues a
// signed time-limited session. The role is part of the lookup key: the same
// username under another role is a distinct identity. No lockout or backoff
// is applied on repeated failures.
func (svc *service) Authenticate(ctx context.Context, username, password string, role user.Role) (Session, error) {
	if !role.IsValid() {
		return Session{}, ErrInvalidCredentials
	}

	usr, err := svc.usrSvc.GetByUsernameAndRole(ctx, username, role)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			// burn a comparison so this path takes as long as a mismatch
			_ = (&user.User{PasswordHash: dummyHash}).CheckPassword(password)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, errors.Wrap(err, "finding user by username and role")
	}
	if err = usr.CheckPassword(password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !usr.Active() {
		return Session{}, ErrAccountDeactivated
	}

	if usr, err = svc.usrSvc.SetLastLogin(ctx, usr); err != nil {
		return Session{}, errors.Wrap(err, "setting lastLogin")
	}

	claims, err := svc.UserClaims(ctx, usr)
	if err != nil {
		return Session{}, err
	}
	token, err := svc.GenerateToken(claims)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Claims: claims}, nil
}

// UserClaims resolves the role-specific linkage and builds the user's claims.
func (svc *service) UserClaims(ctx context.Context, usr user.User) (Claims, error) {
	now := nowFunc()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    svc.conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(svc.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: usr.Username,
		Role:     usr.Role,
	}

	switch usr.Role {
	case user.RoleStudent:
		stu, err := svc.stuSvc.GetByUserID(ctx, usr.ID)
		if err != nil {
			if errors.Cause(err) != student.ErrNotFound {
				return Claims{}, errors.Wrap(err, "finding student by user ID")
			}
		} else {
			claims.StudentID = stu.ID
		}
	case user.RoleParent:
		students, err := svc.stuSvc.FindByGuardian(ctx, usr.Username)
		if err != nil {
			return Claims{}, errors.Wrap(err, "finding students by guardian")
		}
		for _, stu := range students {
			claims.StudentIDs = append(claims.StudentIDs, stu.ID)
		}
		if len(claims.StudentIDs) > 0 {
			claims.StudentID = claims.StudentIDs[0]
		}
	case user.RoleFaculty:
		fac, err := svc.facSvc.GetByUserID(ctx, usr.ID)
		if err != nil {
			if errors.Cause(err) != faculty.ErrNotFound {
				return Claims{}, errors.Wrap(err, "finding faculty by user ID")
			}
		} else {
			claims.SubjectName = fac.Subject
		}
	case user.RoleAdmin:
		// no linkage
	}
	return claims, nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (svc *service) GenerateToken(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(svc.conf.SecretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify validates the token's signature and expiry and returns its claims.
// It gates every role-scoped operation performed by the surrounding system.
func (svc *service) Verify(tokenStr string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return svc.conf.SecretKey, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}
	return *claims, nil
}
