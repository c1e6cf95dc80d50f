package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"size:255;uniqueIndex"`
	Username  string `gorm:"size:64"`
	Password  string `gorm:"size:64"` // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
