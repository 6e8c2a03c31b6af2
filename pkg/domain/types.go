package domain

import "time"

type PromptMode string

const (
	// ModeSatset prompts carry AI-expanded content generated once at creation.
	ModeSatset PromptMode = "satset"
	// ModeManual prompts carry author-supplied content.
	ModeManual PromptMode = "manual"
)

type AssetType string

const (
	AssetCharacter AssetType = "character"
	AssetObject    AssetType = "object"
	AssetProduct   AssetType = "product"
)

type UserRole string

const (
	RoleUser           UserRole = "user"
	RoleSuperAdmin     UserRole = "super_admin"
	RoleDeveloperAdmin UserRole = "developer_admin"
)

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusDisabled UserStatus = "disabled"
)

// Capability identifies one generation capability an API key can unlock.
type Capability string

const (
	CapabilityTextLLM     Capability = "text_llm"
	CapabilityImageGen    Capability = "image_gen"
	CapabilityImageVision Capability = "image_vision"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Prompt struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"ownerId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Mode      PromptMode `json:"mode"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Asset struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Type        AssetType `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeveloperProfile holds per-tenant branding plus the scope that owns API keys.
type DeveloperProfile struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"ownerId"`
	BrandName         string    `json:"brandName"`
	BrandColor        string    `json:"brandColor"`
	FooterText        string    `json:"footerText"`
	AuthorizationCode string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// APIKeySet carries decrypted secrets for one developer profile.
// Values live only for the duration of the resolving call.
type APIKeySet struct {
	ID             string    `json:"id"`
	ProfileID      string    `json:"profileId"`
	TextLLMKey     string    `json:"-"`
	ImageGenKey    string    `json:"-"`
	ImageVisionKey string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Key returns the secret for a capability, empty when unset.
func (k APIKeySet) Key(c Capability) string {
	switch c {
	case CapabilityTextLLM:
		return k.TextLLMKey
	case CapabilityImageGen:
		return k.ImageGenKey
	case CapabilityImageVision:
		return k.ImageVisionKey
	default:
		return ""
	}
}

// Scene is one storyboard frame. Scenes are produced per request and never persisted.
type Scene struct {
	Scene       int    `json:"scene"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}
