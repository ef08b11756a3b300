package models

import "time"

// Session is the only record the panel persists locally: a signed-in user's
// encrypted backend token plus a snapshot of the user and the selected building.
type Session struct {
	ID                 string `gorm:"primaryKey;size:36"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	TokenCiphertext    []byte    `gorm:"not null"`
	ExpiresAt          time.Time `gorm:"index;not null"`
	UserJSON           []byte    `gorm:"not null"`
	SelectedBuildingID string    `gorm:"size:64"`
	RefreshedAt        time.Time
}
