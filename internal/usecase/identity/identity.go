package identity

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const (
	MinUsername = 3
	MaxUsername = 50
	MinPassword = 6
)

var (
	ErrInvalidUsername = httperr.New(httperr.KindValidation, "invalid_username", "Username must be between 3 and 50 characters")
	ErrWeakPassword    = httperr.New(httperr.KindValidation, "weak_password", "Password must have at least 6 characters")
)

// ======================================================
// REGISTER
// ======================================================

type RegisterInput struct {
	Username string
	Phone    string
	Password string
}

type Register struct {
	uow    domain.UnitOfWork
	tokens *Tokens
}

func NewRegister(uow domain.UnitOfWork, tokens *Tokens) *Register {
	return &Register{uow: uow, tokens: tokens}
}

// Execute creates a client account and logs it in.
func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(in.Username)
	if n := len(username); n < MinUsername || n > MaxUsername {
		return nil, "", ErrInvalidUsername
	}
	if len(in.Password) < MinPassword {
		return nil, "", ErrWeakPassword
	}

	user, err := createUser(ctx, uc.uow, username, strings.TrimSpace(in.Phone), in.Password, models.RoleClient)
	if err != nil {
		return nil, "", err
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, "", httperr.Infra(err, "issue token")
	}
	return user, token, nil
}

func createUser(ctx context.Context, uow domain.UnitOfWork, username, phone, password, role string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, httperr.Infra(err, "hash password")
	}

	user := &models.User{
		Username:     username,
		Phone:        phone,
		PasswordHash: string(hashed),
		Role:         role,
	}

	err = uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		existing, err := tx.Users().GetUserByUsername(ctx, username)
		if err != nil {
			return httperr.Infra(err, "load user")
		}
		if existing != nil {
			return identity.ErrUsernameTaken
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if httperr.IsUniqueViolation(err) {
				return identity.ErrUsernameTaken
			}
			return httperr.Infra(err, "create user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ======================================================
// LOGIN
// ======================================================

type Login struct {
	uow    domain.UnitOfWork
	tokens *Tokens
}

func NewLogin(uow domain.UnitOfWork, tokens *Tokens) *Login {
	return &Login{uow: uow, tokens: tokens}
}

func (uc *Login) Execute(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := uc.uow.Reader().Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, "", httperr.Infra(err, "load user")
	}
	if user == nil {
		return nil, "", identity.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", identity.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, "", httperr.Infra(err, "issue token")
	}
	return user, token, nil
}

// ======================================================
// SUPERADMIN
// ======================================================

// SeedAdmin makes sure the configured superadmin exists with the admin role.
// An existing account keeps its password.
func SeedAdmin(ctx context.Context, uow domain.UnitOfWork, log *zap.Logger, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		log.Info("superadmin seeding skipped: no credentials configured")
		return nil
	}

	existing, err := uow.Reader().Users().GetUserByUsername(ctx, username)
	if err != nil {
		return httperr.Infra(err, "load superadmin")
	}
	if existing != nil {
		if existing.Role == models.RoleAdmin {
			return nil
		}
		existing.Role = models.RoleAdmin
		if err := uow.Reader().Users().SaveUser(ctx, existing); err != nil {
			return httperr.Infra(err, "promote superadmin")
		}
		log.Info("superadmin role restored", zap.String("username", username))
		return nil
	}

	if _, err := createUser(ctx, uow, username, "", password, models.RoleAdmin); err != nil {
		return err
	}
	log.Info("superadmin created", zap.String("username", username))
	return nil
}
