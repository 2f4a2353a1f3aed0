package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/volcano-api/internal/models"
	"github.com/hongminglow/volcano-api/internal/storage"
)

// newIntegrationStore connects to the database in DATABASE_URL. The tests
// touch real tables, so they only run with RUN_DB_INTEGRATION=true.
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	store, err := New(context.Background(), dbURL, nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Ping(context.Background()))
	return store
}

func TestUserLifecycleIntegration(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	email := fmt.Sprintf("apitest_%d@example.com", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = store.pool.Exec(context.Background(), `DELETE FROM users WHERE email = $1`, email)
	})

	require.NoError(t, store.CreateUser(ctx, email, "hash"))
	assert.ErrorIs(t, store.CreateUser(ctx, email, "other"), storage.ErrAlreadyExists)

	user, err := store.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Nil(t, user.FirstName)
	assert.Nil(t, user.DOB)

	profile := models.Profile{FirstName: "Ada", LastName: "Lovelace", DOB: "1815-12-10", Address: "London"}
	require.NoError(t, store.UpdateProfile(ctx, email, profile))

	user, err = store.FindByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, user.DOB)
	assert.Equal(t, "1815-12-10", user.DOB.Format(models.DateLayout))
	assert.Equal(t, "Ada", *user.FirstName)
	assert.Equal(t, "London", *user.Address)

	_, err = store.FindByEmail(ctx, "missing-"+email)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.UpdateProfile(ctx, "missing-"+email, profile), storage.ErrNotFound)
}

func TestVolcanoQueriesIntegration(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	const id = 990001
	_, err := store.pool.Exec(ctx, `
		INSERT INTO volcanoes (id, name, country, region, subregion, last_eruption, summit, elevation, latitude, longitude,
			population_5km, population_10km, population_30km, population_100km)
		VALUES ($1, 'Testberg', 'Testland', 'Test Region', 'Test Subregion', '1990 CE', 1200, 3900, 35.5, 138.7, 0, 0, 120, 5000)
		ON CONFLICT (id) DO NOTHING;`, id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = store.pool.Exec(context.Background(), `DELETE FROM volcanoes WHERE id = $1`, id)
	})

	countries, err := store.Countries(ctx)
	require.NoError(t, err)
	assert.Contains(t, countries, "Testland")
	assert.IsNonDecreasing(t, countries)

	list, err := store.ListVolcanoes(ctx, models.VolcanoFilter{Country: "Testland"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Testberg", list[0].Name)

	list, err = store.ListVolcanoes(ctx, models.VolcanoFilter{Country: "Testland", PopulatedWithin: models.Within10km})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = store.ListVolcanoes(ctx, models.VolcanoFilter{Country: "Testland", PopulatedWithin: models.Within30km})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	public, err := store.GetVolcano(ctx, id, false)
	require.NoError(t, err)
	assert.Nil(t, public.Population5km)
	assert.Equal(t, int64(3900), public.Elevation)

	full, err := store.GetVolcano(ctx, id, true)
	require.NoError(t, err)
	require.NotNil(t, full.Population100km)
	assert.Equal(t, int64(5000), *full.Population100km)

	_, err = store.GetVolcano(ctx, -1, true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
