package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"central-lost-found/backend/internal/session/domain"
)

var warsawIdentity = domain.Identity{
	Email:           "jan.kowalski@um.warszawa.pl",
	Region:          "Mazowieckie",
	Locality:        "Warszawa",
	ReportingEntity: "um.warszawa.pl",
}

func TestMemoryStore_CreateLookup(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	sess, err := store.Create(ctx, warsawIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.Nil(t, sess.ExpiresAt, "zero ttl never expires")

	got, err := store.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, warsawIdentity, got.Identity)
}

func TestMemoryStore_LookupUnknown(t *testing.T) {
	store := NewMemoryStore(0)

	got, err := store.Lookup(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_DistinctTokens(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	a, err := store.Create(ctx, warsawIdentity)
	require.NoError(t, err)
	b, err := store.Create(ctx, warsawIdentity)
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.Equal(t, 2, store.Len(), "login never overwrites an existing session")
}

func TestMemoryStore_Expire(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	sess, err := store.Create(ctx, warsawIdentity)
	require.NoError(t, err)
	require.NoError(t, store.Expire(ctx, sess.Token))

	got, err := store.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Expire(ctx, "never-issued"))
}

func TestMemoryStore_TTL(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.nowF = func() time.Time { return now }
	ctx := context.Background()

	sess, err := store.Create(ctx, warsawIdentity)
	require.NoError(t, err)
	require.NotNil(t, sess.ExpiresAt)

	now = now.Add(59 * time.Second)
	got, err := store.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(time.Second)
	got, err = store.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, store.Len(), "expired entry is swept on lookup")
}

func TestMemoryStore_LookupReturnsCopy(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	sess, err := store.Create(ctx, warsawIdentity)
	require.NoError(t, err)
	got, err := store.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	got.Identity.Region = "changed"

	again, err := store.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "Mazowieckie", again.Identity.Region)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	tokens := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sess, err := store.Create(ctx, domain.Identity{Email: fmt.Sprintf("u%d@um.krakow.pl", id)})
			if err == nil {
				tokens <- sess.Token
			}
		}(i)
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Lookup(ctx, "probe")
		}()
	}
	wg.Wait()
	close(tokens)

	seen := map[string]bool{}
	for tok := range tokens {
		assert.False(t, seen[tok])
		seen[tok] = true
	}
	assert.Len(t, seen, 50)
	assert.Equal(t, 50, store.Len())
}
