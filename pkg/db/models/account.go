package models

import "time"

// Account represents a registered user. Usernames are the natural key the rest
// of the schema references.
type Account struct {
	Username      string     `gorm:"column:username;primaryKey"`
	PasswordHash  string     `gorm:"column:password_hash;not null"`
	FirstName     string     `gorm:"column:first_name;not null"`
	LastName      string     `gorm:"column:last_name;not null"`
	Email         string     `gorm:"type:text;not null;uniqueIndex"`
	ProfileImgURL *string    `gorm:"column:profile_img_url"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the model aligned with the accounts migration.
func (Account) TableName() string {
	return "accounts"
}
