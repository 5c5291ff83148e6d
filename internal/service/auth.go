package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type TokenIssuer interface {
	Issue(ctx context.Context, user *models.User) (string, error)
}

type AuthService struct {
	Repo     *repo.GormRepo
	Sessions TokenIssuer
	Events   events.Publisher

	// compared against when the username is unknown so that both failure
	// paths cost one bcrypt comparison
	dummyOnce sync.Once
	dummyHash string
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
	FullName string
	Age      string
	Gender   string
}

type LoginResult struct {
	AccessToken string
	Role        string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := requireFields(
		field{"username", in.Username},
		field{"password", in.Password},
		field{"email", in.Email},
		field{"phone", in.Phone},
		field{"full_name", in.FullName},
		field{"age", in.Age},
		field{"gender", in.Gender},
	); err != nil {
		return nil, err
	}

	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil {
		return nil, fmt.Errorf("age must be an integer: %w", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, pkg_hash.ErrPasswordTooLong) {
			return nil, fmt.Errorf("password is too long: %w", ErrValidation)
		}
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     in.Username,
		PasswordHash: pwHash,
		Email:        in.Email,
		Phone:        in.Phone,
		FullName:     in.FullName,
		Age:          age,
		Gender:       in.Gender,
		Role:         models.RoleForUsername(in.Username),
	}

	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 400, "reason", "user already exists")
			return nil, fmt.Errorf("username %q: %w", in.Username, ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "cannot insert user", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	return &user, nil
}

// Authenticate returns the stored user when username and password match.
// There is no rate limiting or lockout.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if err := requireFields(field{"username", username}, field{"password", password}); err != nil {
		return nil, err
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pkg_hash.CheckPassword(s.fakeHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrValidation) {
			l.Error("login_error", "status", 500, "error", err)
		}
		return nil, err
	}

	token, err := s.Sessions.Issue(ctx, user)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return &LoginResult{AccessToken: token, Role: user.Role}, nil
}

func (s *AuthService) fakeHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = pkg_hash.HashPassword("storefront-unknown-user")
	})
	return s.dummyHash
}
