package store

import "time"

// GORM models used for persistence. Secret columns hold AES-GCM
// ciphertext, never plaintext.

type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
	Status       string `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

type PromptModel struct {
	ID        string    `gorm:"primaryKey"`
	OwnerID   string    `gorm:"not null;index"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"type:text;not null"`
	Mode      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time
}

type AssetModel struct {
	ID          string    `gorm:"primaryKey"`
	OwnerID     string    `gorm:"not null;index"`
	Name        string    `gorm:"not null"`
	Type        string    `gorm:"not null;index"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time
}

type DeveloperProfileModel struct {
	ID                string    `gorm:"primaryKey"`
	OwnerID           string    `gorm:"uniqueIndex;not null"`
	BrandName         string    `gorm:"not null"`
	BrandColor        string
	FooterText        string
	AuthorizationCode string    // encrypted
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time
}

type APIKeySetModel struct {
	ID             string    `gorm:"primaryKey"`
	ProfileID      string    `gorm:"uniqueIndex;not null"`
	TextLLMKey     string    // encrypted
	ImageGenKey    string    // encrypted
	ImageVisionKey string    // encrypted
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time
}
