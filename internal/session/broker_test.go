package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docgate/docgate-go/internal/session"
)

func TestBroker_SetAndGet(t *testing.T) {
	b := session.New()
	assert.Equal(t, "", b.Token())

	b.SetToken("abc123")
	assert.Equal(t, "abc123", b.Token())

	b.SetToken("")
	assert.Equal(t, "", b.Token())
}

func TestBroker_ClearFiresUnauthorizedOncePerCall(t *testing.T) {
	b := session.New()
	var calls int
	b.Configure(nil, nil, func() { calls++ })

	b.SetToken("tok")
	b.Clear()
	assert.Equal(t, "", b.Token())
	assert.Equal(t, 1, calls)

	b.Clear()
	assert.Equal(t, 2, calls, "each Clear call fires the callback again")
}

func TestBroker_ExternalStoreBinding(t *testing.T) {
	var stored string
	b := session.New()
	b.Configure(
		func() string { return stored },
		func(tok string) { stored = tok },
		nil,
	)

	b.SetToken("external")
	assert.Equal(t, "external", stored, "writes go to the external store")
	assert.Equal(t, "external", b.Token(), "reads come from the external store")

	b.Clear()
	assert.Equal(t, "", stored)
}

func TestBroker_ResetDoesNotFireCallback(t *testing.T) {
	b := session.New()
	var calls int
	b.Configure(nil, nil, func() { calls++ })

	b.SetToken("tok")
	b.Reset()
	assert.Equal(t, "", b.Token())
	assert.Equal(t, 0, calls)
}

func TestBroker_ConcurrentReadersSeeLatestWrite(t *testing.T) {
	b := session.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.SetToken("tok")
		}()
		go func() {
			defer wg.Done()
			_ = b.Token()
		}()
	}
	wg.Wait()
	assert.Equal(t, "tok", b.Token())
}
