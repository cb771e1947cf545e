package weathercache_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/infrastructure/weathercache"
)

func openStore(t *testing.T) *weathercache.Store {
	t.Helper()
	store, err := weathercache.Open(filepath.Join(t.TempDir(), "weather.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_PutAndAll(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Put(domain.WeatherSnapshot{
		Location: "Oslo", Condition: "Clear", TempCelsius: 14, FetchedAt: time.Now(),
	}))
	require.NoError(t, store.Put(domain.WeatherSnapshot{
		Location: "Bergen", Condition: "Rain", FetchedAt: time.Now(),
	}))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 2)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestStore_PutReplacesByLocation(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Put(domain.WeatherSnapshot{Location: "Oslo", Condition: "Clouds"}))
	require.NoError(t, store.Put(domain.WeatherSnapshot{Location: "Oslo", Condition: "Clear"}))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Clear", all[0].Condition)
}

func TestStore_PutRejectsEmptyLocation(t *testing.T) {
	store := openStore(t)
	err := store.Put(domain.WeatherSnapshot{Condition: "Clear"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestStore_Prune(t *testing.T) {
	store := openStore(t)
	now := time.Now()

	require.NoError(t, store.Put(domain.WeatherSnapshot{
		Location: "stale", Condition: "Clear", FetchedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, store.Put(domain.WeatherSnapshot{
		Location: "fresh", Condition: "Clear", FetchedAt: now,
	}))

	require.NoError(t, store.Prune(now.Add(-24*time.Hour)))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "fresh", all[0].Location)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.db")

	store, err := weathercache.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.WeatherSnapshot{Location: "Oslo", Condition: "Clear"}))
	require.NoError(t, store.Close())

	reopened, err := weathercache.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Oslo", all[0].Location)
}
