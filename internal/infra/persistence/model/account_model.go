package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. PostgreSQL generates UUIDs via gen_random_uuid().
//
// verification_token is unique but nullable: at most one account can hold a
// given token, and a verified account holds none.
type AccountModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email             string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash      string    `gorm:"type:varchar(255);not null"`
	Verified          bool      `gorm:"not null;default:false"`
	VerificationToken *string   `gorm:"type:varchar(64);unique"`
	TokenExpiresAt    *time.Time
	LastNotifiedAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
