package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/marisolvega/skinroutine-backend/internal/users"
	"github.com/marisolvega/skinroutine-backend/pkg/config"
	"github.com/marisolvega/skinroutine-backend/pkg/db"
	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
	"github.com/marisolvega/skinroutine-backend/pkg/security"
	"gorm.io/gorm"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// RegisterRequest contains the payload required for creating a new account.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// RegisterService handles the account creation transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerAccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
// AccountRepoFactory builds the repository bound to the transaction handle.
type RegisterServiceParams struct {
	TxRunner           txRunner
	AccountRepoFactory func(tx *gorm.DB) registerAccountRepository
	PasswordConfig     config.PasswordConfig
}

type registerService struct {
	tx          txRunner
	accountRepo func(tx *gorm.DB) registerAccountRepository
	passwordCfg config.PasswordConfig
}

// NewDBRegisterService wires the registration flow to the shared database
// client with the default account repository.
func NewDBRegisterService(client *db.Client, passwordCfg config.PasswordConfig) (RegisterService, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return NewRegisterService(RegisterServiceParams{
		TxRunner: client,
		AccountRepoFactory: func(tx *gorm.DB) registerAccountRepository {
			return users.NewRepository(tx)
		},
		PasswordConfig: passwordCfg,
	})
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.AccountRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "account repo factory required")
	}
	return &registerService{
		tx:          params.TxRunner,
		accountRepo: params.AccountRepoFactory,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if !usernameRe.MatchString(username) {
		return pkgerrors.New(pkgerrors.CodeValidation, "username must be 3-30 lowercase letters, digits, or underscores")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.accountRepo(tx)

		if _, err := repo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}

		_, err = repo.Create(ctx, &models.Account{
			Username:     username,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        email,
		})
		if err != nil {
			// The unique constraints backstop the pre-checks under concurrency.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
		}
		return nil
	})
}
