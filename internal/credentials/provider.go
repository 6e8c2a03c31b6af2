// Package credentials resolves generation API keys for a requester.
//
// Resolution is a policy choice: OwnScopeOnly confines every requester to
// keys configured on their own developer profile, while
// OwnScopeThenGlobalFallback additionally scans all key records so any
// authenticated user can ride a platform-level demo key. The fallback is a
// works-out-of-the-box convenience, not a security boundary; it is kept as
// an explicit, swappable strategy so the cross-tenant reach stays visible.
package credentials

import (
	"strings"

	"veocraftpro/pkg/domain"
	"veocraftpro/pkg/store"
)

// Provider resolves the API key for a capability on behalf of a requester.
// An absent key is a normal outcome, not an error: ok is false and err is
// nil when nothing is configured.
type Provider interface {
	Resolve(capability domain.Capability, requesterID string) (secret string, ok bool, err error)
}

// OwnScopeOnly resolves keys solely from the requester's own profile.
type OwnScopeOnly struct {
	Store store.Store
}

// Resolve implements Provider.
func (p OwnScopeOnly) Resolve(capability domain.Capability, requesterID string) (string, bool, error) {
	return resolveOwnScope(p.Store, capability, requesterID)
}

// OwnScopeThenGlobalFallback resolves from the requester's own profile
// first, then falls back to the first key record system-wide that exposes
// a non-empty secret for the capability.
type OwnScopeThenGlobalFallback struct {
	Store store.Store
}

// Resolve implements Provider.
func (p OwnScopeThenGlobalFallback) Resolve(capability domain.Capability, requesterID string) (string, bool, error) {
	secret, ok, err := resolveOwnScope(p.Store, capability, requesterID)
	if err != nil || ok {
		return secret, ok, err
	}
	keySets, err := p.Store.ListAPIKeySets()
	if err != nil {
		return "", false, err
	}
	for _, keys := range keySets {
		if secret := strings.TrimSpace(keys.Key(capability)); secret != "" {
			return secret, true, nil
		}
	}
	return "", false, nil
}

// NewProvider selects the resolution strategy.
func NewProvider(s store.Store, globalFallback bool) Provider {
	if globalFallback {
		return OwnScopeThenGlobalFallback{Store: s}
	}
	return OwnScopeOnly{Store: s}
}

func resolveOwnScope(s store.Store, capability domain.Capability, requesterID string) (string, bool, error) {
	if requesterID == "" {
		return "", false, nil
	}
	profile, found, err := s.GetProfileByOwner(requesterID)
	if err != nil || !found {
		return "", false, err
	}
	keys, found, err := s.GetAPIKeySetByProfile(profile.ID)
	if err != nil || !found {
		return "", false, err
	}
	if secret := strings.TrimSpace(keys.Key(capability)); secret != "" {
		return secret, true, nil
	}
	return "", false, nil
}
