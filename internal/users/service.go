package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marisolvega/skinroutine-backend/pkg/config"
	"github.com/marisolvega/skinroutine-backend/pkg/db"
	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
	"github.com/marisolvega/skinroutine-backend/pkg/security"
	"gorm.io/gorm"
)

// emailConstraint matches the UNIQUE on accounts.email in the migration.
const emailConstraint = "accounts_email_key"

// Service defines the behavior needed by the users controllers.
type Service interface {
	FindAll(ctx context.Context) ([]UserDTO, error)
	GetByUsername(ctx context.Context, username string) (*UserDetailDTO, error)
	Update(ctx context.Context, username string, req UpdateUserRequest) (*UserDTO, error)
	Delete(ctx context.Context, username string) error
}

type accountRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindAll(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	Delete(ctx context.Context, username string) error
}

type stepLister interface {
	FindByOwner(ctx context.Context, username string) ([]models.Step, error)
}

type service struct {
	accounts    accountRepository
	steps       stepLister
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	AccountRepo    accountRepository
	StepRepo       stepLister
	PasswordConfig config.PasswordConfig
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AccountRepo == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if params.StepRepo == nil {
		return nil, fmt.Errorf("step repository is required")
	}
	return &service{
		accounts:    params.AccountRepo,
		steps:       params.StepRepo,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) FindAll(ctx context.Context) ([]UserDTO, error) {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accounts")
	}
	out := make([]UserDTO, 0, len(accounts))
	for i := range accounts {
		out = append(out, *FromModel(&accounts[i]))
	}
	return out, nil
}

func (s *service) GetByUsername(ctx context.Context, username string) (*UserDetailDTO, error) {
	account, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	steps, err := s.steps.FindByOwner(ctx, account.Username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list account steps")
	}
	stepIDs := make([]int64, 0, len(steps))
	for _, step := range steps {
		stepIDs = append(stepIDs, step.ID)
	}

	return &UserDetailDTO{
		UserDTO: *FromModel(account),
		StepIDs: stepIDs,
	}, nil
}

func (s *service) Update(ctx context.Context, username string, req UpdateUserRequest) (*UserDTO, error) {
	if req.isEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be provided")
	}

	account, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		account.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		account.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != account.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			account.Email = email
		}
	}
	if req.ProfileImgURL != nil {
		url := strings.TrimSpace(*req.ProfileImgURL)
		account.ProfileImgURL = &url
	}
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		account.PasswordHash = hash
	}
	account.UpdatedAt = time.Now().UTC()

	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		if db.IsUniqueViolation(err, emailConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, username string) error {
	account, err := s.lookup(ctx, username)
	if err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, account.Username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete account")
	}
	return nil
}

func (s *service) lookup(ctx context.Context, username string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup account")
	}
	return account, nil
}

func (s *service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
}
