package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"veocraftpro/internal/app"
	"veocraftpro/pkg/domain"
	"veocraftpro/pkg/store"
)

type textFunc func(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error)

func (f textFunc) GenerateText(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, apiKey, systemPrompt, userPrompt)
}

type imageFunc func(ctx context.Context, apiKey, prompt string) (string, error)

func (f imageFunc) GenerateImage(ctx context.Context, apiKey, prompt string) (string, error) {
	return f(ctx, apiKey, prompt)
}

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	dataStore := store.NewMemoryStore()
	application, err := app.New(app.Config{
		Store:    dataStore,
		Sessions: store.NewMemorySessionStore(),
		TextGenerator: textFunc(func(_ context.Context, _, _, userPrompt string) (string, error) {
			return "expanded: " + userPrompt, nil
		}),
		ImageGenerator: imageFunc(func(_ context.Context, _, prompt string) (string, error) {
			return "https://img.example.com/" + fmt.Sprint(len(prompt)), nil
		}),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := httptest.NewServer(New(application).Router())
	t.Cleanup(srv.Close)
	return srv, dataStore
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func signup(t *testing.T, baseURL, email string) (string, domain.User) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/api/auth/signup", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, resp.StatusCode, body)
	}
	var out struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	return out.Token, out.User
}

func TestSignupFirstUserBecomesSuperAdmin(t *testing.T) {
	srv, _ := newTestServer(t)

	_, first := signup(t, srv.URL, "first@example.com")
	if first.Role != domain.RoleSuperAdmin {
		t.Fatalf("first user role: got %q, want %q", first.Role, domain.RoleSuperAdmin)
	}
	_, second := signup(t, srv.URL, "second@example.com")
	if second.Role != domain.RoleUser {
		t.Fatalf("second user role: got %q, want %q", second.Role, domain.RoleUser)
	}
}

func TestSignupRejectsDuplicateEmailAndShortPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	signup(t, srv.URL, "dup@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"email": "dup@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"email": "short@example.com", "password": "short",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password: expected 400, got %d", resp.StatusCode)
	}
}

func TestLoginLogoutAndMe(t *testing.T) {
	srv, _ := newTestServer(t)
	signup(t, srv.URL, "user@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "user@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", out.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(string(body), "passwordHash") {
		t.Fatal("me response leaked password hash")
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/logout", out.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", out.Token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", resp.StatusCode)
	}
}

func TestLoginRejectsWrongPasswordAndDisabledAccount(t *testing.T) {
	srv, dataStore := newTestServer(t)
	_, user := signup(t, srv.URL, "victim@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "victim@example.com", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", resp.StatusCode)
	}

	stored, _, err := dataStore.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	stored.Status = domain.StatusDisabled
	if err := dataStore.SaveUser(stored); err != nil {
		t.Fatalf("save user: %v", err)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "victim@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("disabled account: expected 401, got %d", resp.StatusCode)
	}
}

func TestPromptCRUDAndOwnership(t *testing.T) {
	srv, _ := newTestServer(t)
	ownerToken, _ := signup(t, srv.URL, "owner@example.com")
	otherToken, _ := signup(t, srv.URL, "other@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/prompts", ownerToken, map[string]string{
		"title": "Launch teaser", "content": "A drone shot over a city at dawn", "mode": "manual",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create prompt: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var prompt domain.Prompt
	if err := json.Unmarshal(body, &prompt); err != nil {
		t.Fatalf("decode prompt: %v", err)
	}
	if prompt.Content != "A drone shot over a city at dawn" {
		t.Fatalf("manual prompt content changed: %q", prompt.Content)
	}

	// Owner reads, updates, lists.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/prompts/"+prompt.ID, ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get prompt: expected 200, got %d", resp.StatusCode)
	}
	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/api/prompts/"+prompt.ID, ownerToken, map[string]string{
		"title": "Launch teaser v2", "content": "A drone shot over a harbor at dusk",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update prompt: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var updated domain.Prompt
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated prompt: %v", err)
	}
	if updated.Mode != domain.ModeManual {
		t.Fatalf("mode changed on update: %q", updated.Mode)
	}

	// Another user is rejected with 403 on every verb.
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		resp, _ = doJSON(t, method, srv.URL+"/api/prompts/"+prompt.ID, otherToken, map[string]string{
			"title": "x", "content": "y",
		})
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s by non-owner: expected 403, got %d", method, resp.StatusCode)
		}
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/prompts/"+prompt.ID, ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete prompt: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/prompts/"+prompt.ID, ownerToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted prompt: expected 404, got %d", resp.StatusCode)
	}
}

func TestSatsetCreationStoresExpandedContent(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := signup(t, srv.URL, "maker@example.com")

	// No API keys configured, so the expander falls back to the template.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/prompts", token, map[string]string{
		"title": "Quick ad", "content": "a smartwatch unboxing", "mode": "satset",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create satset prompt: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var prompt domain.Prompt
	if err := json.Unmarshal(body, &prompt); err != nil {
		t.Fatalf("decode prompt: %v", err)
	}
	if !strings.Contains(prompt.Content, "Core Concept: a smartwatch unboxing") {
		t.Fatalf("satset content missing expanded template: %q", prompt.Content)
	}
	if prompt.Mode != domain.ModeSatset {
		t.Fatalf("mode: got %q, want satset", prompt.Mode)
	}
}

func TestAssetCRUDWithTypeFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := signup(t, srv.URL, "assets@example.com")

	for _, tc := range []struct{ name, kind string }{
		{"Hero", "character"},
		{"Vintage camera", "object"},
		{"Smartwatch X", "product"},
	} {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/assets", token, map[string]string{
			"name": tc.name, "type": tc.kind, "description": "test asset",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create asset %s: expected 201, got %d: %s", tc.name, resp.StatusCode, body)
		}
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/assets?type=character", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list assets: expected 200, got %d", resp.StatusCode)
	}
	var list struct {
		Items []domain.Asset `json:"items"`
		Count int            `json:"count"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode asset list: %v", err)
	}
	if list.Count != 1 || list.Items[0].Name != "Hero" {
		t.Fatalf("filtered list: got %+v", list)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/assets", token, map[string]string{
		"name": "Bad", "type": "vehicle",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid asset type: expected 400, got %d", resp.StatusCode)
	}
}

func TestStoryboardFallsBackWithoutKeys(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := signup(t, srv.URL, "sb@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/prompts", token, map[string]string{
		"title": "Teaser", "content": "Anything at all", "mode": "manual",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create prompt: expected 201, got %d", resp.StatusCode)
	}
	var prompt domain.Prompt
	if err := json.Unmarshal(body, &prompt); err != nil {
		t.Fatalf("decode prompt: %v", err)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/storyboards", token, map[string]string{
		"promptId": prompt.ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("storyboard: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var out struct {
		PromptID string         `json:"promptId"`
		Scenes   []domain.Scene `json:"scenes"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode storyboard: %v", err)
	}
	if out.PromptID != prompt.ID {
		t.Fatalf("promptId: got %q, want %q", out.PromptID, prompt.ID)
	}
	if len(out.Scenes) != 4 {
		t.Fatalf("fallback scenes: got %d, want 4", len(out.Scenes))
	}
	for i, scene := range out.Scenes {
		if scene.Scene != i+1 {
			t.Fatalf("scene %d numbered %d", i, scene.Scene)
		}
		if !strings.Contains(scene.ImageURL, "placeholder") {
			t.Fatalf("scene %d unexpected image url %q", i, scene.ImageURL)
		}
	}
}

func TestStoryboardOwnershipAndMissingPrompt(t *testing.T) {
	srv, _ := newTestServer(t)
	ownerToken, _ := signup(t, srv.URL, "sbowner@example.com")
	otherToken, _ := signup(t, srv.URL, "sbother@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/prompts", ownerToken, map[string]string{
		"title": "Private", "content": "secret content", "mode": "manual",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create prompt: expected 201, got %d", resp.StatusCode)
	}
	var prompt domain.Prompt
	if err := json.Unmarshal(body, &prompt); err != nil {
		t.Fatalf("decode prompt: %v", err)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/storyboards", otherToken, map[string]string{
		"promptId": prompt.ID,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("storyboard by non-owner: expected 403, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/storyboards", ownerToken, map[string]string{
		"promptId": "no-such-prompt",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("storyboard for missing prompt: expected 404, got %d", resp.StatusCode)
	}
}

func TestAdminRoutesAreRoleGated(t *testing.T) {
	srv, _ := newTestServer(t)
	adminToken, _ := signup(t, srv.URL, "admin@example.com")
	userToken, user := signup(t, srv.URL, "plain@example.com")

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin list as user: expected 403, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", resp.StatusCode)
	}
	var list struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode user list: %v", err)
	}
	if list.Count != 2 {
		t.Fatalf("user count: got %d, want 2", list.Count)
	}

	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/api/admin/users/"+user.ID, adminToken, map[string]string{
		"role": "developer_admin",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("promote user: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var promoted domain.User
	if err := json.Unmarshal(body, &promoted); err != nil {
		t.Fatalf("decode promoted user: %v", err)
	}
	if promoted.Role != domain.RoleDeveloperAdmin {
		t.Fatalf("promoted role: got %q", promoted.Role)
	}

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/api/admin/users/"+user.ID, adminToken, map[string]string{
		"role": "emperor",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid role: expected 400, got %d", resp.StatusCode)
	}
}

func TestDeveloperKeysWriteOnly(t *testing.T) {
	srv, _ := newTestServer(t)
	adminToken, _ := signup(t, srv.URL, "root@example.com")
	devToken, dev := signup(t, srv.URL, "dev@example.com")

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/developer/keys", devToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("keys as plain user: expected 403, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/api/admin/users/"+dev.ID, adminToken, map[string]string{
		"role": "developer_admin",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("promote to developer_admin: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/developer/keys", devToken, map[string]string{
		"textLlmKey": "sk-text-secret", "imageGenKey": "sk-image-secret",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("put keys: expected 204, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/developer/keys", devToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get key status: expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(string(body), "sk-text-secret") || strings.Contains(string(body), "sk-image-secret") {
		t.Fatalf("key status leaked plaintext: %s", body)
	}
	var status map[domain.Capability]bool
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("decode key status: %v", err)
	}
	if !status[domain.CapabilityTextLLM] || !status[domain.CapabilityImageGen] || status[domain.CapabilityImageVision] {
		t.Fatalf("key status flags: got %v", status)
	}
}

func TestDeveloperBrandingRoundtrip(t *testing.T) {
	srv, dataStore := newTestServer(t)
	adminToken, _ := signup(t, srv.URL, "boss@example.com")
	devToken, dev := signup(t, srv.URL, "brand@example.com")
	resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/api/admin/users/"+dev.ID, adminToken, map[string]string{
		"role": "developer_admin",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("promote: expected 200, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/developer/branding", devToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get default branding: expected 200, got %d", resp.StatusCode)
	}
	var profile domain.DeveloperProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.BrandName == "" {
		t.Fatal("default branding missing brand name")
	}

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/developer/branding", devToken, map[string]string{
		"brandName": "Studio Nine", "brandColor": "#102030", "footerText": "made with care",
		"authorizationCode": "auth-code-secret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put branding: expected 200, got %d: %s", resp.StatusCode, body)
	}
	if strings.Contains(string(body), "auth-code-secret") {
		t.Fatalf("branding response leaked authorization code: %s", body)
	}
	var saved domain.DeveloperProfile
	if err := json.Unmarshal(body, &saved); err != nil {
		t.Fatalf("decode saved profile: %v", err)
	}
	if saved.BrandName != "Studio Nine" || saved.BrandColor != "#102030" {
		t.Fatalf("saved branding: got %+v", saved)
	}

	stored, found, err := dataStore.GetProfileByOwner(dev.ID)
	if err != nil || !found {
		t.Fatalf("stored profile: found=%v err=%v", found, err)
	}
	if stored.AuthorizationCode != "auth-code-secret" {
		t.Fatalf("authorization code not persisted: %q", stored.AuthorizationCode)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/prompts", "/api/assets", "/api/storyboards", "/api/auth/me"} {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s without token: expected 401, got %d", path, resp.StatusCode)
		}
	}
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", resp.StatusCode)
	}
}
