package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"veocraftpro/pkg/domain"
	"veocraftpro/pkg/secrets"
)

// GormStore implements Store using GORM + Postgres.
// Secret fields pass through the cipher on the way in and out, so the
// database only ever sees ciphertext.
type GormStore struct {
	db     *gorm.DB
	cipher *secrets.Cipher
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string, cipher *secrets.Cipher) (*GormStore, error) {
	if cipher == nil {
		return nil, fmt.Errorf("secrets cipher required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&PromptModel{},
		&AssetModel{},
		&DeveloperProfileModel{},
		&APIKeySetModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db, cipher: cipher}, nil
}

// SaveUser registers or updates a user.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "password_hash", "role", "status", "updated_at"}),
	}).Create(&model).Error
}

// HasUserEmail checks if email exists.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// ListUsers returns all users ordered by created_at.
func (s *GormStore) ListUsers() ([]domain.User, error) {
	var models []UserModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.User, 0, len(models))
	for _, m := range models {
		res = append(res, userFromModel(m))
	}
	return res, nil
}

// UserCount returns number of users.
func (s *GormStore) UserCount() (int, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// SavePrompt stores or updates a prompt.
func (s *GormStore) SavePrompt(p domain.Prompt) error {
	model := promptToModel(p)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
	}).Create(&model).Error
}

// GetPrompt retrieves a prompt by ID.
func (s *GormStore) GetPrompt(id string) (domain.Prompt, bool, error) {
	var model PromptModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Prompt{}, false, nil
		}
		return domain.Prompt{}, false, err
	}
	return promptFromModel(model), true, nil
}

// ListPromptsByOwner returns an owner's prompts, newest first.
func (s *GormStore) ListPromptsByOwner(ownerID string) ([]domain.Prompt, error) {
	var models []PromptModel
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Prompt, 0, len(models))
	for _, m := range models {
		res = append(res, promptFromModel(m))
	}
	return res, nil
}

// DeletePrompt removes a prompt.
func (s *GormStore) DeletePrompt(id string) error {
	return s.db.Delete(&PromptModel{}, "id = ?", id).Error
}

// SaveAsset stores or updates an asset.
func (s *GormStore) SaveAsset(a domain.Asset) error {
	model := assetToModel(a)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "type", "description", "updated_at"}),
	}).Create(&model).Error
}

// GetAsset retrieves an asset by ID.
func (s *GormStore) GetAsset(id string) (domain.Asset, bool, error) {
	var model AssetModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Asset{}, false, nil
		}
		return domain.Asset{}, false, err
	}
	return assetFromModel(model), true, nil
}

// ListAssetsByOwner returns an owner's assets, newest first,
// optionally filtered by type.
func (s *GormStore) ListAssetsByOwner(ownerID string, assetType domain.AssetType) ([]domain.Asset, error) {
	tx := s.db.Where("owner_id = ?", ownerID)
	if assetType != "" {
		tx = tx.Where("type = ?", string(assetType))
	}
	var models []AssetModel
	if err := tx.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Asset, 0, len(models))
	for _, m := range models {
		res = append(res, assetFromModel(m))
	}
	return res, nil
}

// DeleteAsset removes an asset.
func (s *GormStore) DeleteAsset(id string) error {
	return s.db.Delete(&AssetModel{}, "id = ?", id).Error
}

// SaveProfile stores or updates a developer profile.
func (s *GormStore) SaveProfile(p domain.DeveloperProfile) error {
	code, err := s.cipher.Encrypt(p.AuthorizationCode)
	if err != nil {
		return fmt.Errorf("encrypt authorization code: %w", err)
	}
	model := profileToModel(p)
	model.AuthorizationCode = code
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"brand_name", "brand_color", "footer_text", "authorization_code", "updated_at"}),
	}).Create(&model).Error
}

// GetProfileByOwner retrieves the developer profile owned by a user.
func (s *GormStore) GetProfileByOwner(ownerID string) (domain.DeveloperProfile, bool, error) {
	var model DeveloperProfileModel
	if err := s.db.Where("owner_id = ?", ownerID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.DeveloperProfile{}, false, nil
		}
		return domain.DeveloperProfile{}, false, err
	}
	code, err := s.cipher.Decrypt(model.AuthorizationCode)
	if err != nil {
		return domain.DeveloperProfile{}, false, fmt.Errorf("decrypt authorization code: %w", err)
	}
	profile := profileFromModel(model)
	profile.AuthorizationCode = code
	return profile, true, nil
}

// SaveAPIKeySet stores or updates the key record for a profile.
func (s *GormStore) SaveAPIKeySet(k domain.APIKeySet) error {
	model, err := s.keySetToModel(k)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text_llm_key", "image_gen_key", "image_vision_key", "updated_at"}),
	}).Create(&model).Error
}

// GetAPIKeySetByProfile retrieves and decrypts the key record for a profile.
func (s *GormStore) GetAPIKeySetByProfile(profileID string) (domain.APIKeySet, bool, error) {
	var model APIKeySetModel
	if err := s.db.Where("profile_id = ?", profileID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.APIKeySet{}, false, nil
		}
		return domain.APIKeySet{}, false, err
	}
	keys, err := s.keySetFromModel(model)
	if err != nil {
		return domain.APIKeySet{}, false, err
	}
	return keys, true, nil
}

// ListAPIKeySets returns all key records in creation order, decrypted.
func (s *GormStore) ListAPIKeySets() ([]domain.APIKeySet, error) {
	var models []APIKeySetModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.APIKeySet, 0, len(models))
	for _, m := range models {
		keys, err := s.keySetFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, keys)
	}
	return res, nil
}

func (s *GormStore) keySetToModel(k domain.APIKeySet) (APIKeySetModel, error) {
	textKey, err := s.cipher.Encrypt(k.TextLLMKey)
	if err != nil {
		return APIKeySetModel{}, fmt.Errorf("encrypt text llm key: %w", err)
	}
	imageKey, err := s.cipher.Encrypt(k.ImageGenKey)
	if err != nil {
		return APIKeySetModel{}, fmt.Errorf("encrypt image gen key: %w", err)
	}
	visionKey, err := s.cipher.Encrypt(k.ImageVisionKey)
	if err != nil {
		return APIKeySetModel{}, fmt.Errorf("encrypt image vision key: %w", err)
	}
	return APIKeySetModel{
		ID:             k.ID,
		ProfileID:      k.ProfileID,
		TextLLMKey:     textKey,
		ImageGenKey:    imageKey,
		ImageVisionKey: visionKey,
		CreatedAt:      k.CreatedAt,
		UpdatedAt:      k.UpdatedAt,
	}, nil
}

func (s *GormStore) keySetFromModel(m APIKeySetModel) (domain.APIKeySet, error) {
	textKey, err := s.cipher.Decrypt(m.TextLLMKey)
	if err != nil {
		return domain.APIKeySet{}, fmt.Errorf("decrypt text llm key: %w", err)
	}
	imageKey, err := s.cipher.Decrypt(m.ImageGenKey)
	if err != nil {
		return domain.APIKeySet{}, fmt.Errorf("decrypt image gen key: %w", err)
	}
	visionKey, err := s.cipher.Decrypt(m.ImageVisionKey)
	if err != nil {
		return domain.APIKeySet{}, fmt.Errorf("decrypt image vision key: %w", err)
	}
	return domain.APIKeySet{
		ID:             m.ID,
		ProfileID:      m.ProfileID,
		TextLLMKey:     textKey,
		ImageGenKey:    imageKey,
		ImageVisionKey: visionKey,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		Status:       domain.UserStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func promptToModel(p domain.Prompt) PromptModel {
	return PromptModel{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Title:     p.Title,
		Content:   p.Content,
		Mode:      string(p.Mode),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func promptFromModel(m PromptModel) domain.Prompt {
	return domain.Prompt{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		Content:   m.Content,
		Mode:      domain.PromptMode(m.Mode),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func assetToModel(a domain.Asset) AssetModel {
	return AssetModel{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		Name:        a.Name,
		Type:        string(a.Type),
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func assetFromModel(m AssetModel) domain.Asset {
	return domain.Asset{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Type:        domain.AssetType(m.Type),
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func profileToModel(p domain.DeveloperProfile) DeveloperProfileModel {
	return DeveloperProfileModel{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		BrandName:  p.BrandName,
		BrandColor: p.BrandColor,
		FooterText: p.FooterText,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func profileFromModel(m DeveloperProfileModel) domain.DeveloperProfile {
	return domain.DeveloperProfile{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		BrandName:  m.BrandName,
		BrandColor: m.BrandColor,
		FooterText: m.FooterText,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
