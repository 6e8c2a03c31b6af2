package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"veocraftpro/internal/credentials"
	"veocraftpro/internal/pipeline"
	"veocraftpro/internal/util"
	"veocraftpro/pkg/ai"
	"veocraftpro/pkg/auth"
	"veocraftpro/pkg/domain"
	"veocraftpro/pkg/secrets"
	"veocraftpro/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	SessionTTL         time.Duration
	JWTSecret          string
	EncryptionKey      string
	TextAPIBaseURL     string
	ImageAPIBaseURL    string
	CredentialFallback bool

	// Injectable for tests.
	Store          store.Store
	Sessions       store.SessionStore
	TextGenerator  ai.TextGenerator
	ImageGenerator ai.ImageGenerator
}

// App is the core application service wiring storage, credentials, and the
// generation pipeline.
type App struct {
	store       store.Store
	sessions    store.SessionStore
	expander    *pipeline.Expander
	synthesizer *pipeline.Synthesizer
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		cipher, err := secrets.NewCipher(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("init secrets cipher: %w", err)
		}
		dataStore, err = store.NewGormStore(cfg.DatabaseURL, cipher)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return nil, fmt.Errorf("redisAddr is required for the session store")
		}
		var err error
		sessionStore, err = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.JWTSecret, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("init session store: %w", err)
		}
	}

	textGen := cfg.TextGenerator
	if textGen == nil {
		textGen = ai.NewChatClient(cfg.TextAPIBaseURL)
	}
	imageGen := cfg.ImageGenerator
	if imageGen == nil {
		imageGen = ai.NewImageClient(cfg.ImageAPIBaseURL)
	}

	creds := credentials.NewProvider(dataStore, cfg.CredentialFallback)

	return &App{
		store:       dataStore,
		sessions:    sessionStore,
		expander:    pipeline.NewExpander(creds, textGen),
		synthesizer: pipeline.NewSynthesizer(creds, imageGen),
	}, nil
}

// SignUp registers a new user. The first account becomes the super admin.
func (a *App) SignUp(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, "", ErrEmailAndPasswordRequired
	}
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, "", err
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrEmailAlreadyExists
	}
	count, err := a.store.UserCount()
	if err != nil {
		return domain.User{}, "", fmt.Errorf("count users: %w", err)
	}
	role := domain.RoleUser
	if count == 0 {
		role = domain.RoleSuperAdmin
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           util.NewID(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("create session: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and issues a session token.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, "", ErrEmailAndPasswordRequired
	}
	user, found, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("get user: %w", err)
	}
	if !found || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if user.Status == domain.StatusDisabled {
		return domain.User{}, "", ErrAccountDisabled
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("create session: %w", err)
	}
	return user, token, nil
}

// Logout revokes a session token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}

// UserFromToken resolves a session token to its user.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	userID, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := a.store.GetUserByID(userID)
	if err != nil || !found || user.Status == domain.StatusDisabled {
		return domain.User{}, false
	}
	return user, true
}

// CreatePrompt stores a new prompt for the user. In satset mode the
// submitted content is treated as an idea and expanded once, here; the
// expansion is never re-run on later reads.
func (a *App) CreatePrompt(ctx context.Context, user domain.User, title, content string, mode domain.PromptMode) (domain.Prompt, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return domain.Prompt{}, fmt.Errorf("title and content are required: %w", ErrValidation)
	}
	if mode != domain.ModeSatset && mode != domain.ModeManual {
		return domain.Prompt{}, fmt.Errorf("invalid mode %q: %w", mode, ErrValidation)
	}
	if mode == domain.ModeSatset {
		content = a.expander.Expand(ctx, user.ID, content)
	}
	now := time.Now().UTC()
	prompt := domain.Prompt{
		ID:        util.NewID(),
		OwnerID:   user.ID,
		Title:     title,
		Content:   content,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SavePrompt(prompt); err != nil {
		return domain.Prompt{}, fmt.Errorf("save prompt: %w", err)
	}
	return prompt, nil
}

// GetPrompt returns a prompt the user owns.
func (a *App) GetPrompt(user domain.User, id string) (domain.Prompt, error) {
	prompt, found, err := a.store.GetPrompt(id)
	if err != nil {
		return domain.Prompt{}, fmt.Errorf("get prompt: %w", err)
	}
	if !found {
		return domain.Prompt{}, ErrNotFound
	}
	if prompt.OwnerID != user.ID {
		return domain.Prompt{}, ErrForbidden
	}
	return prompt, nil
}

// ListPrompts returns the user's prompts, newest first.
func (a *App) ListPrompts(user domain.User) ([]domain.Prompt, error) {
	return a.store.ListPromptsByOwner(user.ID)
}

// UpdatePrompt changes title and content of an owned prompt. Mode is fixed
// at creation and never changes.
func (a *App) UpdatePrompt(user domain.User, id, title, content string) (domain.Prompt, error) {
	prompt, err := a.GetPrompt(user, id)
	if err != nil {
		return domain.Prompt{}, err
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return domain.Prompt{}, fmt.Errorf("title and content are required: %w", ErrValidation)
	}
	prompt.Title = title
	prompt.Content = content
	prompt.UpdatedAt = time.Now().UTC()
	if err := a.store.SavePrompt(prompt); err != nil {
		return domain.Prompt{}, fmt.Errorf("save prompt: %w", err)
	}
	return prompt, nil
}

// DeletePrompt removes an owned prompt.
func (a *App) DeletePrompt(user domain.User, id string) error {
	if _, err := a.GetPrompt(user, id); err != nil {
		return err
	}
	return a.store.DeletePrompt(id)
}

// CreateAsset stores a new reusable asset for the user.
func (a *App) CreateAsset(user domain.User, name string, assetType domain.AssetType, description string) (domain.Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Asset{}, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if !validAssetType(assetType) {
		return domain.Asset{}, fmt.Errorf("invalid asset type %q: %w", assetType, ErrValidation)
	}
	now := time.Now().UTC()
	asset := domain.Asset{
		ID:          util.NewID(),
		OwnerID:     user.ID,
		Name:        name,
		Type:        assetType,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.store.SaveAsset(asset); err != nil {
		return domain.Asset{}, fmt.Errorf("save asset: %w", err)
	}
	return asset, nil
}

// GetAsset returns an asset the user owns.
func (a *App) GetAsset(user domain.User, id string) (domain.Asset, error) {
	asset, found, err := a.store.GetAsset(id)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("get asset: %w", err)
	}
	if !found {
		return domain.Asset{}, ErrNotFound
	}
	if asset.OwnerID != user.ID {
		return domain.Asset{}, ErrForbidden
	}
	return asset, nil
}

// ListAssets returns the user's assets, optionally filtered by type.
func (a *App) ListAssets(user domain.User, assetType domain.AssetType) ([]domain.Asset, error) {
	if assetType != "" && !validAssetType(assetType) {
		return nil, fmt.Errorf("invalid asset type %q: %w", assetType, ErrValidation)
	}
	return a.store.ListAssetsByOwner(user.ID, assetType)
}

// UpdateAsset changes an owned asset.
func (a *App) UpdateAsset(user domain.User, id, name string, assetType domain.AssetType, description string) (domain.Asset, error) {
	asset, err := a.GetAsset(user, id)
	if err != nil {
		return domain.Asset{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Asset{}, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if !validAssetType(assetType) {
		return domain.Asset{}, fmt.Errorf("invalid asset type %q: %w", assetType, ErrValidation)
	}
	asset.Name = name
	asset.Type = assetType
	asset.Description = strings.TrimSpace(description)
	asset.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveAsset(asset); err != nil {
		return domain.Asset{}, fmt.Errorf("save asset: %w", err)
	}
	return asset, nil
}

// DeleteAsset removes an owned asset.
func (a *App) DeleteAsset(user domain.User, id string) error {
	if _, err := a.GetAsset(user, id); err != nil {
		return err
	}
	return a.store.DeleteAsset(id)
}

// GenerateStoryboard runs the synthesis pipeline for an owned prompt.
// The scene list is computed per request and never persisted.
func (a *App) GenerateStoryboard(ctx context.Context, user domain.User, promptID string) (domain.Prompt, []domain.Scene, error) {
	prompt, err := a.GetPrompt(user, promptID)
	if err != nil {
		return domain.Prompt{}, nil, err
	}
	return prompt, a.synthesizer.Synthesize(ctx, user.ID, prompt), nil
}

// ListUsers returns all users. Caller must be role-gated.
func (a *App) ListUsers() ([]domain.User, error) {
	return a.store.ListUsers()
}

// AdminUpdateUser changes a user's role and/or status.
func (a *App) AdminUpdateUser(id string, role *domain.UserRole, status *domain.UserStatus) (domain.User, error) {
	user, found, err := a.store.GetUserByID(id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return domain.User{}, ErrNotFound
	}
	if role != nil {
		user.Role = *role
	}
	if status != nil {
		user.Status = *status
	}
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// GetBranding returns the developer profile for the user, creating a
// default one on first access.
func (a *App) GetBranding(user domain.User) (domain.DeveloperProfile, error) {
	profile, found, err := a.store.GetProfileByOwner(user.ID)
	if err != nil {
		return domain.DeveloperProfile{}, fmt.Errorf("get profile: %w", err)
	}
	if found {
		return profile, nil
	}
	now := time.Now().UTC()
	profile = domain.DeveloperProfile{
		ID:        util.NewID(),
		OwnerID:   user.ID,
		BrandName: "Veocraft Pro",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SaveProfile(profile); err != nil {
		return domain.DeveloperProfile{}, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

// UpdateBranding changes the developer profile's branding fields.
func (a *App) UpdateBranding(user domain.User, brandName, brandColor, footerText, authorizationCode string) (domain.DeveloperProfile, error) {
	profile, err := a.GetBranding(user)
	if err != nil {
		return domain.DeveloperProfile{}, err
	}
	brandName = strings.TrimSpace(brandName)
	if brandName == "" {
		return domain.DeveloperProfile{}, fmt.Errorf("brand name is required: %w", ErrValidation)
	}
	profile.BrandName = brandName
	profile.BrandColor = strings.TrimSpace(brandColor)
	profile.FooterText = strings.TrimSpace(footerText)
	if authorizationCode != "" {
		profile.AuthorizationCode = authorizationCode
	}
	profile.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveProfile(profile); err != nil {
		return domain.DeveloperProfile{}, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

// KeyStatus reports which capabilities have a key configured for the
// user's profile. Plaintext secrets are never returned.
func (a *App) KeyStatus(user domain.User) (map[domain.Capability]bool, error) {
	status := map[domain.Capability]bool{
		domain.CapabilityTextLLM:     false,
		domain.CapabilityImageGen:    false,
		domain.CapabilityImageVision: false,
	}
	profile, found, err := a.store.GetProfileByOwner(user.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !found {
		return status, nil
	}
	keys, found, err := a.store.GetAPIKeySetByProfile(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("get key set: %w", err)
	}
	if !found {
		return status, nil
	}
	for capability := range status {
		status[capability] = strings.TrimSpace(keys.Key(capability)) != ""
	}
	return status, nil
}

// UpdateKeys replaces the API keys on the user's profile. Empty fields
// clear the corresponding key.
func (a *App) UpdateKeys(user domain.User, textLLMKey, imageGenKey, imageVisionKey string) error {
	profile, err := a.GetBranding(user)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	keys, found, err := a.store.GetAPIKeySetByProfile(profile.ID)
	if err != nil {
		return fmt.Errorf("get key set: %w", err)
	}
	if !found {
		keys = domain.APIKeySet{
			ID:        util.NewID(),
			ProfileID: profile.ID,
			CreatedAt: now,
		}
	}
	keys.TextLLMKey = strings.TrimSpace(textLLMKey)
	keys.ImageGenKey = strings.TrimSpace(imageGenKey)
	keys.ImageVisionKey = strings.TrimSpace(imageVisionKey)
	keys.UpdatedAt = now
	if err := a.store.SaveAPIKeySet(keys); err != nil {
		return fmt.Errorf("save key set: %w", err)
	}
	return nil
}

func validAssetType(t domain.AssetType) bool {
	switch t {
	case domain.AssetCharacter, domain.AssetObject, domain.AssetProduct:
		return true
	default:
		return false
	}
}
