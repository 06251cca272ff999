package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// User is owned by the upstream identity service; this service only reads it
// to attach the caller to claims and checkout sessions.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"type:varchar(100)" json:"first_name" validate:"max=100"`
	LastName  string         `gorm:"type:varchar(100)" json:"last_name" validate:"max=100"`
	Email     string         `gorm:"uniqueIndex;type:varchar(200)" json:"-" validate:"required,email,max=200"`
	Role      string         `gorm:"type:varchar(50);default:'user'" json:"-" validate:"oneof=user admin"`
	Status    string         `gorm:"type:varchar(50);default:'active'" json:"-" validate:"oneof=active inactive disabled"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}
