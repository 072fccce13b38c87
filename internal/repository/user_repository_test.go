package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/geo"
	"github.com/oggyb/matchmaker/internal/repository"
)

func TestCreateUserWithLocation(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	user := db.User{
		ID:           uuid.NewString(),
		Email:        "anna@test.com",
		PasswordHash: "x",
		FirstName:    "Anna",
		LastName:     "Smith",
		Sex:          db.SexFemale,
		BirthDate:    time.Date(1998, 3, 2, 0, 0, 0, 0, time.UTC),
		Active:       true,
	}
	require.NoError(t, repo.Create(ctx, &user, &db.Location{}))

	// location row exists at the default origin
	coords, err := repo.GetCoordinates(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, geo.Coordinate{}, coords)
}

func TestCreateDuplicateEmailRollsBack(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	first := db.User{
		ID: uuid.NewString(), Email: "taken@test.com", PasswordHash: "x",
		FirstName: "First", LastName: "User", Sex: db.SexMale,
	}
	require.NoError(t, repo.Create(ctx, &first, &db.Location{}))

	second := db.User{
		ID: uuid.NewString(), Email: "taken@test.com", PasswordHash: "x",
		FirstName: "Second", LastName: "User", Sex: db.SexMale,
	}
	err := repo.Create(ctx, &second, &db.Location{})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// the failed signup must not leave any partial rows behind
	var users, locations int64
	require.NoError(t, gdb.Model(&db.User{}).Count(&users).Error)
	require.NoError(t, gdb.Model(&db.Location{}).Count(&locations).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), locations)
}

func TestGetByEmailAndID(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	created := newUser(t, gdb, "bob", db.SexMale, geo.Coordinate{Latitude: 1, Longitude: 2})

	byEmail, err := repo.GetByEmail(ctx, "bob@test.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.FirstName)
	require.NotNil(t, byID.Location)
	assert.Equal(t, 1.0, byID.Location.Latitude)

	_, err = repo.GetByEmail(ctx, "nobody@test.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateCoordinates(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	user := newUser(t, gdb, "carol", db.SexFemale, geo.Coordinate{})

	require.NoError(t, repo.UpdateCoordinates(ctx, user.ID, geo.Coordinate{Latitude: 52.52, Longitude: 13.405}))

	coords, err := repo.GetCoordinates(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 52.52, coords.Latitude)
	assert.Equal(t, 13.405, coords.Longitude)

	// still exactly one location row
	var locations int64
	require.NoError(t, gdb.Model(&db.Location{}).Where("user_id = ?", user.ID).Count(&locations).Error)
	assert.Equal(t, int64(1), locations)
}

func TestUpdateCoordinatesSameValues(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	user := newUser(t, gdb, "dora", db.SexFemale, geo.Coordinate{Latitude: 52.52, Longitude: 13.405})

	// re-sending the stored coordinates must resolve against the
	// existing row, not insert a second one or surface a conflict
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.UpdateCoordinates(ctx, user.ID, geo.Coordinate{Latitude: 52.52, Longitude: 13.405}))
	}

	coords, err := repo.GetCoordinates(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, geo.Coordinate{Latitude: 52.52, Longitude: 13.405}, coords)

	var locations int64
	require.NoError(t, gdb.Model(&db.Location{}).Where("user_id = ?", user.ID).Count(&locations).Error)
	assert.Equal(t, int64(1), locations)
}

func TestGetCoordinatesMissing(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	user := db.User{
		ID: uuid.NewString(), Email: "noloc@test.com", PasswordHash: "x",
		FirstName: "noloc", LastName: "x", Sex: db.SexMale,
	}
	require.NoError(t, gdb.Create(&user).Error)

	_, err := repo.GetCoordinates(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTouchLastOnline(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	user := newUser(t, gdb, "dave", db.SexMale, geo.Coordinate{})
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.TouchLastOnline(ctx, user.ID, stamp))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.LastOnline.Equal(stamp))
}

func TestAttachAndListTags(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	alice := newUser(t, gdb, "alice", db.SexFemale, geo.Coordinate{})
	bob := newUser(t, gdb, "bobby", db.SexMale, geo.Coordinate{})

	require.NoError(t, repo.AttachTags(ctx, alice.ID, []db.Tag{
		{Name: "hiking", Slug: "hiking"},
		{Name: "movies", Slug: "movies"},
	}))
	require.NoError(t, repo.AttachTags(ctx, bob.ID, []db.Tag{
		{Name: "hiking", Slug: "hiking"}, // reuses the existing tag row
	}))

	var tagCount int64
	require.NoError(t, gdb.Model(&db.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(2), tagCount)

	byUser, err := repo.TagsForUsers(ctx, []string{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Len(t, byUser[alice.ID], 2)
	assert.Len(t, byUser[bob.ID], 1)
	assert.Equal(t, "hiking", byUser[bob.ID][0].Name)
}
