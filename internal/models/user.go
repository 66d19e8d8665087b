package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"size:255;not null"`
	UserID       string    `json:"userId" gorm:"column:user_id;size:20;uniqueIndex;not null"`
	ReferredBy   *string   `json:"referredBy" gorm:"size:20;index"`
	ReferrerName *string   `json:"referrerName" gorm:"size:100"`
	IsAdmin      bool      `json:"isAdmin" gorm:"default:false"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
