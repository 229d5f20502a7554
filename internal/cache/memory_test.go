package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(10 * time.Millisecond)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryStore_SetGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("value"), time.Minute))

	data, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), data)
}

func TestMemoryStore_Missing(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must behave as absent")
}

func TestMemoryStore_NoExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "ttl 0 must never expire")
}

func TestMemoryStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is fine
	require.NoError(t, s.Delete(ctx, "k"))
}

func TestMemoryStore_JanitorEvicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", []byte("v"), time.Millisecond))
	require.NoError(t, s.Set(ctx, "long", []byte("v"), time.Minute))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_CallerCannotMutate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := []byte("immutable")
	require.NoError(t, s.Set(ctx, "k", original, 0))
	original[0] = 'X'

	data, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("immutable"), data)

	data[0] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("immutable"), again)
}

func TestJSONHelpers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	type payload struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	in := payload{Name: "heart_rate", Value: 72.5}
	require.NoError(t, SetJSON(ctx, s, "p", in, time.Minute))

	var out payload
	ok, err := GetJSON(ctx, s, "p", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	var missing payload
	ok, err = GetJSON(ctx, s, "absent", &missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "forecast:user-1:hr:7-days", Key("forecast", "user-1", "hr", "7-days"))
	assert.Equal(t, "single", Key("single"))
}
