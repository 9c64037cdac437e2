package gen

import "sync"

// Authorizer gates video generation, which requires the user's own API key.
// Confirmation is remembered until Reset, which callers invoke after the
// provider reports the key invalid.
type Authorizer interface {
	Confirmed() bool
	Confirm()
	Reset()
}

// KeyAuthorizer is an Authorizer backed by the presence of a configured key.
// A configured key still needs a one-time confirmation before the first
// video request.
type KeyAuthorizer struct {
	mu        sync.Mutex
	hasKey    bool
	confirmed bool
}

// NewKeyAuthorizer builds an authorizer for the given API key.
func NewKeyAuthorizer(apiKey string) *KeyAuthorizer {
	return &KeyAuthorizer{hasKey: apiKey != ""}
}

// Confirmed reports whether video generation may proceed.
func (a *KeyAuthorizer) Confirmed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasKey && a.confirmed
}

// Confirm records the user's acknowledgement. It has no effect without a key.
func (a *KeyAuthorizer) Confirm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.hasKey {
		a.confirmed = true
	}
}

// Reset clears the confirmation so the next video request asks again.
func (a *KeyAuthorizer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.confirmed = false
}
