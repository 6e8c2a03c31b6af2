package store

import (
	"sync"

	"veocraftpro/pkg/domain"
)

// MemoryStore keeps all records in-process. Used by tests and local runs
// without Postgres.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	email       map[string]string // email -> user ID
	prompts     map[string]domain.Prompt
	assets      map[string]domain.Asset
	profiles    map[string]domain.DeveloperProfile // key: profile ID
	keySets     map[string]domain.APIKeySet        // key: profile ID
	promptOrder []string
	assetOrder  []string
	keyOrder    []string // profile IDs in key-record creation order
	userOrder   []string
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		email:    make(map[string]string),
		prompts:  make(map[string]domain.Prompt),
		assets:   make(map[string]domain.Asset),
		profiles: make(map[string]domain.DeveloperProfile),
		keySets:  make(map[string]domain.APIKeySet),
	}
}

// SaveUser stores or replaces a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.ID]; !exists {
		m.userOrder = append(m.userOrder, u.ID)
	}
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if email exists.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// ListUsers returns users in insertion order.
func (m *MemoryStore) ListUsers() ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		if u, ok := m.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

// UserCount returns number of users.
func (m *MemoryStore) UserCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// SavePrompt stores or replaces a prompt.
func (m *MemoryStore) SavePrompt(p domain.Prompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.prompts[p.ID]; !exists {
		m.promptOrder = append(m.promptOrder, p.ID)
	}
	m.prompts[p.ID] = p
	return nil
}

// GetPrompt retrieves a prompt by ID.
func (m *MemoryStore) GetPrompt(id string) (domain.Prompt, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.prompts[id]
	return p, ok, nil
}

// ListPromptsByOwner returns an owner's prompts, newest first.
func (m *MemoryStore) ListPromptsByOwner(ownerID string) ([]domain.Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Prompt, 0)
	for i := len(m.promptOrder) - 1; i >= 0; i-- {
		if p, ok := m.prompts[m.promptOrder[i]]; ok && p.OwnerID == ownerID {
			res = append(res, p)
		}
	}
	return res, nil
}

// DeletePrompt removes a prompt.
func (m *MemoryStore) DeletePrompt(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prompts, id)
	m.promptOrder = removeID(m.promptOrder, id)
	return nil
}

// SaveAsset stores or replaces an asset.
func (m *MemoryStore) SaveAsset(a domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.assets[a.ID]; !exists {
		m.assetOrder = append(m.assetOrder, a.ID)
	}
	m.assets[a.ID] = a
	return nil
}

// GetAsset retrieves an asset by ID.
func (m *MemoryStore) GetAsset(id string) (domain.Asset, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	return a, ok, nil
}

// ListAssetsByOwner returns an owner's assets, newest first,
// optionally filtered by type.
func (m *MemoryStore) ListAssetsByOwner(ownerID string, assetType domain.AssetType) ([]domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Asset, 0)
	for i := len(m.assetOrder) - 1; i >= 0; i-- {
		a, ok := m.assets[m.assetOrder[i]]
		if !ok || a.OwnerID != ownerID {
			continue
		}
		if assetType != "" && a.Type != assetType {
			continue
		}
		res = append(res, a)
	}
	return res, nil
}

// DeleteAsset removes an asset.
func (m *MemoryStore) DeleteAsset(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assets, id)
	m.assetOrder = removeID(m.assetOrder, id)
	return nil
}

// SaveProfile stores or replaces a developer profile.
func (m *MemoryStore) SaveProfile(p domain.DeveloperProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return nil
}

// GetProfileByOwner retrieves the developer profile owned by a user.
func (m *MemoryStore) GetProfileByOwner(ownerID string) (domain.DeveloperProfile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.OwnerID == ownerID {
			return p, true, nil
		}
	}
	return domain.DeveloperProfile{}, false, nil
}

// SaveAPIKeySet stores or replaces the key record for a profile.
func (m *MemoryStore) SaveAPIKeySet(k domain.APIKeySet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.keySets[k.ProfileID]; !exists {
		m.keyOrder = append(m.keyOrder, k.ProfileID)
	}
	m.keySets[k.ProfileID] = k
	return nil
}

// GetAPIKeySetByProfile retrieves the key record for a profile.
func (m *MemoryStore) GetAPIKeySetByProfile(profileID string) (domain.APIKeySet, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, ok := m.keySets[profileID]
	return k, ok, nil
}

// ListAPIKeySets returns key records in creation order.
func (m *MemoryStore) ListAPIKeySets() ([]domain.APIKeySet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.APIKeySet, 0, len(m.keyOrder))
	for _, profileID := range m.keyOrder {
		if k, ok := m.keySets[profileID]; ok {
			res = append(res, k)
		}
	}
	return res, nil
}

func removeID(ids []string, id string) []string {
	filtered := ids[:0]
	for _, item := range ids {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
