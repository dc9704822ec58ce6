package kv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRedisSubstrate(t *testing.T) Substrate {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSubstrate(client)
}

func newSQLSubstrate(t *testing.T) Substrate {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Entry{}))
	return NewSQLSubstrate(db)
}

var backends = map[string]func(t *testing.T) Substrate{
	"memory": func(t *testing.T) Substrate { return NewMemorySubstrate() },
	"redis":  newRedisSubstrate,
	"sql":    newSQLSubstrate,
}

func TestSubstrateContract(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			_, ok, err := s.Get(ctx, "ns:Users")
			require.NoError(t, err)
			assert.False(t, ok)

			exists, err := s.Exists(ctx, "ns:Users")
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, s.Set(ctx, "ns:Users", []byte(`[1]`)))
			require.NoError(t, s.Set(ctx, "ns:Users", []byte(`[1,2]`)))
			got, ok, err := s.Get(ctx, "ns:Users")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, s.SetMany(ctx, map[string][]byte{
				"ns:Users":    []byte(`[]`),
				"ns:Projects": []byte(`[{"id":"p"}]`),
			}))
			got, _, err = s.Get(ctx, "ns:Users")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
			got, _, err = s.Get(ctx, "ns:Projects")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"p"}]`, string(got))

			require.NoError(t, s.Delete(ctx, "ns:Users"))
			exists, err = s.Exists(ctx, "ns:Users")
			require.NoError(t, err)
			assert.False(t, exists)

			// deleting a missing key is not an error
			assert.NoError(t, s.Delete(ctx, "ns:Missing"))
		})
	}
}

func TestGetJSON_FallsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySubstrate()
	fallback := []string{"seed"}

	got, err := GetJSON(ctx, s, "k", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	require.NoError(t, s.Set(ctx, "k", []byte(`{broken`)))
	got, err = GetJSON(ctx, s, "k", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	require.NoError(t, SetJSON(ctx, s, "k", []string{"a", "b"}))
	got, err = GetJSON(ctx, s, "k", fallback)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestGetJSON_SubstrateFault(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySubstrate()
	require.NoError(t, s.Close())

	got, err := GetJSON(ctx, s, "k", 7)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 7, got)
}

func TestMemorySubstrate_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySubstrate()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'x'

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestKeyspace(t *testing.T) {
	assert.Equal(t, "rabdash:Users", Keyspace("rabdash").Key("Users"))
	assert.Equal(t, "Users", Keyspace("").Key("Users"))
}
