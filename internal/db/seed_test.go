package db_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func TestSeedTestData(t *testing.T) {
	gdb := setupTestDB(t)

	// seeding twice also proves it resets cleanly
	for run := 0; run < 2; run++ {
		require.NoError(t, db.SeedTestData(gdb))

		var users, locations int64
		require.NoError(t, gdb.Model(&db.User{}).Count(&users).Error)
		require.NoError(t, gdb.Model(&db.Location{}).Count(&locations).Error)
		assert.Equal(t, int64(20), users)
		assert.Equal(t, int64(20), locations)

		var edges []db.Match
		require.NoError(t, gdb.Find(&edges).Error)
		require.NotEmpty(t, edges)

		type pair struct{ from, to string }
		byPair := make(map[pair]db.Match, len(edges))
		for _, e := range edges {
			byPair[pair{e.UserID, e.MatchedUserID}] = e
		}
		assert.Len(t, byPair, len(edges), "duplicate edges seeded")

		// mutual flags must be symmetric: a mutual edge has a mutual
		// reverse, and reciprocal edges are never left both pending
		for _, e := range edges {
			rev, ok := byPair[pair{e.MatchedUserID, e.UserID}]
			if e.IsMutual {
				require.True(t, ok, "mutual edge %s->%s has no reverse", e.UserID, e.MatchedUserID)
				assert.True(t, rev.IsMutual, "mutual edge %s->%s has pending reverse", e.UserID, e.MatchedUserID)
			} else {
				assert.False(t, ok, "reciprocal edges %s<->%s left pending", e.UserID, e.MatchedUserID)
			}
		}
	}
}
