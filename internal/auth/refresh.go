package auth

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

const refreshTokenFile = "refresh_tokens.json"

type refreshToken struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

var (
	refreshTokenStore = map[string]refreshToken{}
	loaded            bool
	mu                sync.Mutex
)

// IssueRefreshToken mints an opaque refresh token for the user and persists
// the store.
func IssueRefreshToken(username string, ttl time.Duration) (string, error) {
	mu.Lock()
	defer mu.Unlock()
	ensureLoadedLocked()

	token := uuid.NewString()
	refreshTokenStore[token] = refreshToken{
		Username:  username,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := saveRefreshTokensLocked(); err != nil {
		return "", err
	}
	return token, nil
}

// RedeemRefreshToken returns the username a valid token was issued for. The
// token stays valid until it expires or is revoked.
func RedeemRefreshToken(token string) (string, bool) {
	mu.Lock()
	defer mu.Unlock()
	ensureLoadedLocked()

	rt, ok := refreshTokenStore[token]
	if !ok {
		return "", false
	}
	if time.Now().After(rt.ExpiresAt) {
		delete(refreshTokenStore, token)
		_ = saveRefreshTokensLocked()
		return "", false
	}
	return rt.Username, true
}

func RevokeRefreshToken(token string) {
	mu.Lock()
	defer mu.Unlock()
	ensureLoadedLocked()

	delete(refreshTokenStore, token)
	_ = saveRefreshTokensLocked()
}

// StartRefreshTokenCleaner periodically drops expired tokens from the store.
func StartRefreshTokenCleaner(interval time.Duration) {
	for {
		time.Sleep(interval)
		mu.Lock()
		ensureLoadedLocked()
		now := time.Now()
		for token, rt := range refreshTokenStore {
			if now.After(rt.ExpiresAt) {
				delete(refreshTokenStore, token)
			}
		}
		if err := saveRefreshTokensLocked(); err != nil {
			log.Printf("failed to save refresh tokens: %v", err)
		}
		mu.Unlock()
	}
}

func ensureLoadedLocked() {
	if loaded {
		return
	}
	loaded = true

	data, err := os.ReadFile(refreshTokenFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("failed to load refresh token file: %v", err)
		}
		return
	}
	if err := json.Unmarshal(data, &refreshTokenStore); err != nil {
		log.Printf("failed to parse refresh token file: %v", err)
		refreshTokenStore = map[string]refreshToken{}
	}
}

func saveRefreshTokensLocked() error {
	data, err := json.MarshalIndent(refreshTokenStore, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(refreshTokenFile, data, 0600)
}
