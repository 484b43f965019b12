package user

import (
	"time"
)

type User struct {
	ID                          uint      `gorm:"primaryKey" json:"id"`
	Name                        string    `gorm:"size:255;not null" json:"name"`
	Email                       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role                        string    `gorm:"size:20;not null;default:beneficiary" json:"role"`
	GoogleID                    *string   `gorm:"size:64;uniqueIndex" json:"-"`
	Picture                     string    `gorm:"size:512" json:"picture,omitempty"`
	EncryptedGoogleRefreshToken string    `gorm:"type:text" json:"-"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}
