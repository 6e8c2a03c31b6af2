package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "veocraft:session:"
	sessionIssuer    = "veocraft-pro"
	redisOpTimeout   = 3 * time.Second
)

// RedisSessionStore issues HS256 JWT session tokens whose jti is recorded
// in Redis with TTL. A token is valid only while its jti record exists,
// so logout revokes immediately regardless of the JWT expiry.
type RedisSessionStore struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

// NewRedisSessionStore builds a Redis-backed session store.
func NewRedisSessionStore(addr, password, jwtSecret string, ttl time.Duration) (*RedisSessionStore, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		secret: []byte(jwtSecret),
		ttl:    ttl,
	}, nil
}

// NewSession issues a signed token and records its jti with TTL.
func (s *RedisSessionStore) NewSession(userID string) (string, error) {
	jti := uuid.NewString()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   userID,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Set(ctx, sessionKeyPrefix+jti, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("record session: %w", err)
	}
	return token, nil
}

// GetUserIDByToken verifies the token signature and claims, then checks
// the jti record is still live.
func (s *RedisSessionStore) GetUserIDByToken(token string) (string, bool, error) {
	claims, ok := s.parseClaims(token)
	if !ok {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	userID, err := s.client.Get(ctx, sessionKeyPrefix+claims.ID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if userID != claims.Subject {
		return "", false, nil
	}
	return userID, true, nil
}

// DeleteSession revokes the token's jti record.
func (s *RedisSessionStore) DeleteSession(token string) error {
	claims, ok := s.parseClaims(token)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Del(ctx, sessionKeyPrefix+claims.ID).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

func (s *RedisSessionStore) parseClaims(token string) (*jwt.RegisteredClaims, bool) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}
