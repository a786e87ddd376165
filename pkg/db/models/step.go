package models

import (
	"time"

	"github.com/marisolvega/skinroutine-backend/pkg/enums"
)

// Step is a user's saved routine step. At most one row may exist per
// (username, routine_step, time_of_day); the steps migration enforces that
// with a unique constraint.
type Step struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Username    string          `gorm:"column:username;not null;index"`
	RoutineStep string          `gorm:"column:routine_step;not null"`
	TimeOfDay   enums.TimeOfDay `gorm:"column:time_of_day;not null"`
	ProductID   *int64          `gorm:"column:product_id"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Account Account `gorm:"foreignKey:Username;references:Username"`
}

// TableName keeps the model aligned with the steps migration.
func (Step) TableName() string {
	return "steps"
}
