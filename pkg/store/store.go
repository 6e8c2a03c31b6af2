package store

import "veocraftpro/pkg/domain"

// Store defines persistence operations for users, prompts, assets,
// developer profiles, and API key records.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	ListUsers() ([]domain.User, error)
	UserCount() (int, error)

	// prompts
	SavePrompt(domain.Prompt) error
	GetPrompt(id string) (domain.Prompt, bool, error)
	ListPromptsByOwner(ownerID string) ([]domain.Prompt, error)
	DeletePrompt(id string) error

	// assets
	SaveAsset(domain.Asset) error
	GetAsset(id string) (domain.Asset, bool, error)
	ListAssetsByOwner(ownerID string, assetType domain.AssetType) ([]domain.Asset, error)
	DeleteAsset(id string) error

	// developer profiles and API keys
	SaveProfile(domain.DeveloperProfile) error
	GetProfileByOwner(ownerID string) (domain.DeveloperProfile, bool, error)
	SaveAPIKeySet(domain.APIKeySet) error
	GetAPIKeySetByProfile(profileID string) (domain.APIKeySet, bool, error)
	ListAPIKeySets() ([]domain.APIKeySet, error)
}

// SessionStore persists bearer session tokens.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
