package users

import (
	"time"

	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
)

// UserDTO is the API shape of an account. Password material never leaves the
// service layer.
type UserDTO struct {
	Username      string     `json:"username"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	ProfileImgURL *string    `json:"profile_img_url"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// UserDetailDTO is the single-account view, including the identifiers of the
// account's saved routine steps.
type UserDetailDTO struct {
	UserDTO
	StepIDs []int64 `json:"step_ids"`
}

// UpdateUserRequest carries a partial profile update. Nil fields are left
// untouched; at least one field must be present.
type UpdateUserRequest struct {
	FirstName     *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName      *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email         *string `json:"email" validate:"omitempty,email"`
	ProfileImgURL *string `json:"profile_img_url" validate:"omitempty,url"`
	Password      *string `json:"password" validate:"omitempty,min=8,max=128"`
}

func (r UpdateUserRequest) isEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.ProfileImgURL == nil && r.Password == nil
}

// FromModel converts a persisted account into its API shape.
func FromModel(account *models.Account) *UserDTO {
	if account == nil {
		return nil
	}
	dto := &UserDTO{
		Username:  account.Username,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	if account.ProfileImgURL != nil {
		url := *account.ProfileImgURL
		dto.ProfileImgURL = &url
	}
	if account.LastLoginAt != nil {
		at := *account.LastLoginAt
		dto.LastLoginAt = &at
	}
	return dto
}
