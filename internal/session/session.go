// Package session answers whether a usable login session is stored,
// without contacting the network. The token and profile are written
// unwrapped by the login flow, outside the versioned cache.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iggydv12/dashcache/internal/storage/local"
)

// Keys owned by the login flow. They carry no application prefix.
const (
	TokenKey   = "authToken"
	ProfileKey = "userData"
)

// Info is a diagnostic snapshot of the stored session. The token value
// itself is never included, only its length.
type Info struct {
	HasToken    bool           `json:"hasToken"`
	HasUserData bool           `json:"hasUserData"`
	TokenLength int            `json:"tokenLength"`
	User        map[string]any `json:"user"`
	Timestamp   int64          `json:"timestamp"` // ms since epoch
}

// Validator inspects the stored token and user profile.
type Validator struct {
	store  local.Store
	logger *zap.Logger
}

// NewValidator creates a Validator over the raw storage area.
func NewValidator(store local.Store, logger *zap.Logger) *Validator {
	return &Validator{store: store, logger: logger}
}

// IsSessionValid returns true iff a token is present and the profile
// parses with a non-empty id and role.
func (v *Validator) IsSessionValid() bool {
	token, err := v.read(TokenKey)
	if err != nil || token == "" {
		return false
	}
	raw, err := v.read(ProfileKey)
	if err != nil || raw == "" {
		return false
	}
	profile, err := parseProfile(raw)
	if err != nil {
		v.logger.Debug("Stored user profile is not valid JSON", zap.Error(err))
		return false
	}
	return hasValue(profile["id"]) && hasString(profile["role"])
}

// GetSessionInfo returns a snapshot of the stored session, or nil if
// storage could not be read.
func (v *Validator) GetSessionInfo() *Info {
	token, err := v.read(TokenKey)
	if err != nil {
		v.logger.Error("Reading session token failed", zap.Error(err))
		return nil
	}
	raw, err := v.read(ProfileKey)
	if err != nil {
		v.logger.Error("Reading user profile failed", zap.Error(err))
		return nil
	}

	info := &Info{
		HasToken:    token != "",
		HasUserData: raw != "",
		TokenLength: len(token),
		Timestamp:   time.Now().UnixMilli(),
	}
	if raw != "" {
		if profile, err := parseProfile(raw); err == nil {
			info.User = profile
		}
	}
	return info
}

// read returns "" for a missing key and an error only for storage failures.
func (v *Validator) read(key string) (string, error) {
	value, err := v.store.Get(key)
	if errors.Is(err, local.ErrNoSuchKey) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func parseProfile(raw string) (map[string]any, error) {
	var profile map[string]any
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("profile is null")
	}
	return profile, nil
}

// hasValue accepts numeric ids as issued by the backend as well as strings.
func hasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	default:
		return true
	}
}

func hasString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}
