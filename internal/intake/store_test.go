package intake

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/models"
)

const testPrefix = "intake:session:"

func testSession(id string) *models.Session {
	state, _ := newLoanTypeMachine().Start()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Session{ID: id, State: state, CreatedAt: now, UpdatedAt: now}
}

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, testPrefix, ttl), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr := newMiniredisStore(t, 30*time.Minute)
	ctx := context.Background()

	session := testSession("abc")
	session.State.Answer.Purpose = "education"
	require.NoError(t, store.Save(ctx, session))

	assert.True(t, mr.Exists(testPrefix+"abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL(testPrefix+"abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.State, got.State)
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists(testPrefix+"abc"))
}

func TestRedisStore_ExpiredSessionIsNotFound(t *testing.T) {
	store, mr := newMiniredisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("short")))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "short")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	store, mr := newMiniredisStore(t, time.Minute)
	require.NoError(t, mr.Set(testPrefix+"bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionStoreFailed))
}

func TestRedisStore_Mocked(t *testing.T) {
	ctx := context.Background()
	key := testPrefix + "sess-1"

	t.Run("get failure is a store error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, testPrefix, time.Minute)

		mock.ExpectGet(key).SetErr(errors.New("connection refused"))

		_, err := store.Get(ctx, "sess-1")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionStoreFailed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key is not found", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, testPrefix, time.Minute)

		mock.ExpectGet(key).RedisNil()

		_, err := store.Get(ctx, "sess-1")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save writes json with ttl", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, testPrefix, 5*time.Minute)

		session := testSession("sess-1")
		data, err := json.Marshal(session)
		require.NoError(t, err)

		mock.ExpectSet(key, data, 5*time.Minute).SetVal("OK")

		assert.NoError(t, store.Save(ctx, session))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set failure is a store error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, testPrefix, 5*time.Minute)

		session := testSession("sess-1")
		data, _ := json.Marshal(session)
		mock.ExpectSet(key, data, 5*time.Minute).SetErr(errors.New("READONLY"))

		err := store.Save(ctx, session)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionStoreFailed))
		assert.True(t, apperrors.IsRetryableErrorCode(apperrors.ErrCodeSessionStoreFailed))
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, err := store.Get(ctx, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))

	session := testSession("mem")
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "mem")
	require.NoError(t, err)
	got.State.Step = models.StepComplete

	again, err := store.Get(ctx, "mem")
	require.NoError(t, err)
	assert.Equal(t, models.StepAwaitingPurpose, again.State.Step, "stored session must not alias returned copies")

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "mem")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))

	require.NoError(t, store.Delete(ctx, "mem"))
}

func TestRedisStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies fn and keeps the ttl", func(t *testing.T) {
		store, mr := newMiniredisStore(t, 30*time.Minute)
		require.NoError(t, store.Save(ctx, testSession("upd")))

		got, err := store.Update(ctx, "upd", func(s *models.Session) error {
			s.State.Turns = 3
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, got.State.Turns)
		assert.Equal(t, 30*time.Minute, mr.TTL(testPrefix+"upd"))

		stored, err := store.Get(ctx, "upd")
		require.NoError(t, err)
		assert.Equal(t, 3, stored.State.Turns)
	})

	t.Run("retries when another writer changes the key", func(t *testing.T) {
		store, mr := newMiniredisStore(t, 30*time.Minute)
		require.NoError(t, store.Save(ctx, testSession("race")))

		other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { other.Close() })

		calls := 0
		got, err := store.Update(ctx, "race", func(s *models.Session) error {
			calls++
			if calls == 1 {
				competing := testSession("race")
				competing.State.Turns = 7
				data, err := json.Marshal(competing)
				require.NoError(t, err)
				require.NoError(t, other.Set(ctx, testPrefix+"race", data, 0).Err())
			}
			s.State.Turns++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 8, got.State.Turns)

		stored, err := store.Get(ctx, "race")
		require.NoError(t, err)
		assert.Equal(t, 8, stored.State.Turns)
	})

	t.Run("missing session is not found", func(t *testing.T) {
		store, _ := newMiniredisStore(t, time.Minute)

		_, err := store.Update(ctx, "ghost", func(*models.Session) error { return nil })
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))
	})

	t.Run("fn error aborts without writing", func(t *testing.T) {
		store, _ := newMiniredisStore(t, time.Minute)
		require.NoError(t, store.Save(ctx, testSession("abort")))

		_, err := store.Update(ctx, "abort", func(s *models.Session) error {
			s.State.Turns = 99
			return apperrors.NewInvalidArgumentError("nope")
		})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidArgument))

		stored, err := store.Get(ctx, "abort")
		require.NoError(t, err)
		assert.Zero(t, stored.State.Turns)
	})
}

func TestMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	require.NoError(t, store.Save(ctx, testSession("mem")))

	got, err := store.Update(ctx, "mem", func(s *models.Session) error {
		s.State.Turns++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.State.Turns)

	_, err = store.Update(ctx, "missing", func(*models.Session) error { return nil })
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))
}

func TestMemoryStore_EvictsExpiredSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	tests := []struct {
		name    string
		evict   func()
		wantLen int
	}{
		{
			name:    "expired entry is dropped on read",
			evict:   func() { _, _ = store.Get(ctx, "s-0") },
			wantLen: 2,
		},
		{
			name:    "save sweeps the remaining expired entries",
			evict:   func() { require.NoError(t, store.Save(ctx, testSession("fresh"))) },
			wantLen: 1,
		},
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, testSession("s-"+string(rune('0'+i)))))
	}
	require.Equal(t, 3, store.Len())
	now = now.Add(2 * time.Minute)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.evict()
			assert.Equal(t, tt.wantLen, store.Len())
		})
	}
}
