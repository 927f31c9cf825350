package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"

	"couponhub/internal/domain"
	"couponhub/internal/repos"
	"couponhub/internal/validate"
)

var errWeakPassword = errors.New("must be 8-20 characters with upper and lower case letters, a digit and a symbol")

type JoinInput struct {
	Name     string
	Email    string
	Password string
}

func (in JoinInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 40)),
		validation.Field(&in.Email, validation.Required, validation.Length(1, 50), is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.By(func(v any) error {
			if !validate.Password(v.(string)) {
				return errWeakPassword
			}
			return nil
		})),
	)
}

type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService { return &AuthService{Users: users} }

func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, domain.ErrBadCreds
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates a USER account and signs it in on sid.
func (s *AuthService) Register(ctx context.Context, sid string, in JoinInput) (*domain.User, error) {
	in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	hash, err := repos.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{Email: in.Email, Name: in.Name, Hash: hash, Role: domain.RoleUser}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register %s: %w", in.Email, err)
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, sid)
}

// EnsureAdmin creates the configured admin account when it does not exist yet. An
// existing account with that email is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (created bool, err error) {
	if email == "" {
		return false, nil
	}
	_, err = s.Users.ByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	hash, err := repos.HashPassword(password)
	if err != nil {
		return false, err
	}
	u := &domain.User{Email: email, Name: "Admin", Hash: hash, Role: domain.RoleAdmin}
	if err := s.Users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("create admin %s: %w", email, err)
	}
	return true, nil
}
