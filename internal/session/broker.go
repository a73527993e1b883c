// The broker owns the current access token. Every outgoing request reads it
// here and the refresh cycle writes it back here, so the rest of the client
// never touches token storage directly.

package session

import "sync"

// Broker holds the current access token and the session-invalid signal.
// The zero value stores the token internally; Configure rebinds it to an
// externally owned store. Safe for concurrent use.
type Broker struct {
	mu             sync.RWMutex
	token          string
	getter         func() string
	setter         func(string)
	onUnauthorized func()
}

// New returns a broker backed by its own in-memory token.
func New() *Broker {
	return &Broker{}
}

// Configure binds the broker to an externally owned token store. Any of the
// callbacks may be nil, in which case the broker keeps the corresponding
// built-in behavior.
func (b *Broker) Configure(getter func() string, setter func(string), onUnauthorized func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.getter = getter
	b.setter = setter
	b.onUnauthorized = onUnauthorized
}

// Token returns the current access token, or "" when no session is active.
func (b *Broker) Token() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.getter != nil {
		return b.getter()
	}
	return b.token
}

// SetToken replaces the current access token.
func (b *Broker) SetToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setWithLock(token)
}

// Clear drops the token and fires the unauthorized callback, once per call.
// It performs no network activity; transitioning the application to a
// logged-out state is the callback's job.
func (b *Broker) Clear() {
	b.mu.Lock()
	b.setWithLock("")
	cb := b.onUnauthorized
	b.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Reset drops the token without firing the unauthorized callback. Used for
// voluntary logout, which is not an auth failure.
func (b *Broker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setWithLock("")
}

func (b *Broker) setWithLock(token string) {
	if b.setter != nil {
		b.setter(token)
		return
	}
	b.token = token
}
