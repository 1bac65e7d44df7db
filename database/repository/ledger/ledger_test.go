package ledger

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisLedger(client, zap.NewNop()), mr
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "dr._jose_alvares", NormalizeName("Dr. José   Álvares"))
	assert.Equal(t, "dr_jose_alvares", NormalizeName("dr jose alvares"))

	// Idempotent: normalizing a normalized name changes nothing.
	once := NormalizeName("Dra. Márcia  de  Souza")
	assert.Equal(t, once, NormalizeName(once))
}

func TestNormalizeNameCollapsesVariants(t *testing.T) {
	a := NormalizeName("Dr José Álvares")
	b := NormalizeName("dr jose   alvares")
	assert.Equal(t, a, b)
}

func TestRegisterAndLookup(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	entry := Entry{
		Specialty:    "Cardiologia",
		Date:         "15/09/2026",
		Time:         "10:00",
		RequesterID:  "user-1",
		Practitioner: "Dr. José Álvares",
		Room:         "Consultório 2",
		RegisteredAt: time.Now().Format(time.RFC3339),
	}
	require.NoError(t, l.Register(ctx, entry, time.Hour))

	key := Key{
		RequesterID:  "user-1",
		Specialty:    "cardiologia",
		Date:         "15/09/2026",
		Time:         "10:00",
		Practitioner: "dr jose alvares",
	}
	offered, err := l.AlreadyOffered(ctx, key)
	require.NoError(t, err)
	assert.True(t, offered, "case/accent variants of the same slot must hit the same key")

	other := key
	other.RequesterID = "user-2"
	offered, err = l.AlreadyOffered(ctx, other)
	require.NoError(t, err)
	assert.False(t, offered, "a different requester has not been offered this slot")
}

func TestEntryExpires(t *testing.T) {
	l, mr := newTestLedger(t)
	ctx := context.Background()

	entry := Entry{
		Specialty:    "Dermatologia",
		Date:         "16/09/2026",
		Time:         "08:30",
		RequesterID:  "user-1",
		Practitioner: "Dra. Ana",
	}
	require.NoError(t, l.Register(ctx, entry, 30*time.Second))

	key := Key{
		RequesterID:  "user-1",
		Specialty:    "Dermatologia",
		Date:         "16/09/2026",
		Time:         "08:30",
		Practitioner: "Dra. Ana",
	}
	offered, err := l.AlreadyOffered(ctx, key)
	require.NoError(t, err)
	assert.True(t, offered)

	mr.FastForward(31 * time.Second)

	offered, err = l.AlreadyOffered(ctx, key)
	require.NoError(t, err)
	assert.False(t, offered, "entry must expire after its TTL")
}

func TestTTLForEntry(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	now := time.Date(2026, 9, 15, 22, 30, 0, 0, loc)

	assert.Equal(t, 24*time.Hour, TTLForEntry(now, 24*time.Hour, false))
	assert.Equal(t, 90*time.Minute, TTLForEntry(now, 24*time.Hour, true))
}
