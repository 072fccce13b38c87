package repository_test

import (
	"database/sql"
	"fmt"
	"math"
	"testing"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/geo"
)

const testDriver = "sqlite3_geo"

// The distance expression leans on SQL math functions sqlite does not
// ship with, so the test driver registers Go implementations. ACOS is
// clamped into its domain: floating point noise on near-identical or
// near-antipodal coordinates can push the cosine argument past +/-1.
func init() {
	sql.Register(testDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			funcs := map[string]interface{}{
				"radians": func(x float64) float64 { return x * math.Pi / 180 },
				"cos":     math.Cos,
				"sin":     math.Sin,
				"acos": func(x float64) float64 {
					return math.Acos(math.Max(-1, math.Min(1, x)))
				},
				"least":    math.Min,
				"greatest": math.Max,
			}
			for name, fn := range funcs {
				if err := conn.RegisterFunc(name, fn, true); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// setupTestDB opens an isolated in-memory sqlite DB with the geo
// functions registered and the schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Dialector{DriverName: testDriver, DSN: dsn}, &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
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

// newUser inserts a user with a location and returns it.
func newUser(t *testing.T, gdb *gorm.DB, firstName string, sex db.Sex, at geo.Coordinate) db.User {
	t.Helper()

	user := db.User{
		ID:           uuid.NewString(),
		Email:        firstName + "@test.com",
		PasswordHash: "x",
		FirstName:    firstName,
		LastName:     "tester",
		Sex:          sex,
		BirthDate:    time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
		Active:       true,
		LastOnline:   time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(&user).Error)
	require.NoError(t, gdb.Create(&db.Location{
		UserID:    user.ID,
		Latitude:  at.Latitude,
		Longitude: at.Longitude,
	}).Error)
	return user
}
