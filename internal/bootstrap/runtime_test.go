package bootstrap

import (
	"context"
	"testing"

	"sportsync/internal/config"
	"sportsync/internal/imagehost"
	"sportsync/internal/models"
	"sportsync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageHost_DisabledWithoutBucket(t *testing.T) {
	host, err := NewImageHost(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.IsType(t, imagehost.Disabled{}, host)
}

func TestSeedDemoIfEmpty(t *testing.T) {
	saved := demoSeed
	demoSeed.NumUsers, demoSeed.NumPosts, demoSeed.NumMatchPosts, demoSeed.SkipBcrypt = 3, 2, 1, true
	t.Cleanup(func() { demoSeed = saved })

	t.Run("seeds an empty development database", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		require.NoError(t, seedDemoIfEmpty(&config.Config{Env: "development"}, db))

		var users int64
		require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
		assert.Equal(t, int64(3), users)
	})

	t.Run("leaves existing data alone", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		testutil.CreateUser(t, db, "existing")
		require.NoError(t, seedDemoIfEmpty(&config.Config{Env: "development"}, db))

		var users int64
		require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
		assert.Equal(t, int64(1), users)
	})

	t.Run("skips other environments", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		require.NoError(t, seedDemoIfEmpty(&config.Config{Env: "production"}, db))

		var users int64
		require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
		assert.Zero(t, users)
	})
}
