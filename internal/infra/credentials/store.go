// Package credentials holds the locally-stored override API key. When a key
// is present the analyzer talks to the inference provider directly and
// guests may analyze without logging in. The guest daily limit and account
// credit balances still apply.
package credentials

import (
	"errors"
	"strings"

	"mealcheck/internal/localstore"
)

// APIKeyStorageKey is the fixed local-store key holding the override
// credential. An empty or absent value means "no override".
const APIKeyStorageKey = "keto_carnivora_api_key"

type Store struct {
	store *localstore.Store
}

func NewStore(store *localstore.Store) *Store {
	return &Store{store: store}
}

// GeminiAPIKey returns the stored override key, or "" when none is set.
func (s *Store) GeminiAPIKey() string {
	if s == nil || s.store == nil {
		return ""
	}
	data, ok := s.store.Get(APIKeyStorageKey)
	if !ok {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// HasOverride reports whether an override credential is configured.
func (s *Store) HasOverride() bool {
	return s.GeminiAPIKey() != ""
}

// SetGeminiAPIKey stores the override key.
func (s *Store) SetGeminiAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("credentials: gemini api key is required")
	}
	if s == nil || s.store == nil {
		return errors.New("credentials: no store configured")
	}
	return s.store.Put(APIKeyStorageKey, []byte(key))
}

// Clear removes the override key, restoring remote-proxied operation.
func (s *Store) Clear() error {
	if s == nil || s.store == nil {
		return errors.New("credentials: no store configured")
	}
	return s.store.Delete(APIKeyStorageKey)
}
