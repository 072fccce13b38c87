package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/geo"
)

// UserRepository provides data access for users, their locations and
// tags.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB
// connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a user and its location as one atomic unit. A failure
// on either insert rolls back both, so no user exists without a
// location row.
func (r *UserRepository) Create(ctx context.Context, user *db.User, loc *db.Location) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		loc.UserID = user.ID
		return tx.Create(loc).Error
	})
}

// GetByEmail returns the user with the given email, or
// gorm.ErrRecordNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with tags and location preloaded.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Tags").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCoordinates returns the user's stored coordinates, or
// gorm.ErrRecordNotFound when no location row exists.
func (r *UserRepository) GetCoordinates(ctx context.Context, userID string) (geo.Coordinate, error) {
	var loc db.Location
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&loc).Error
	if err != nil {
		return geo.Coordinate{}, err
	}
	return geo.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// UpdateCoordinates overwrites the user's location, creating the row if
// it is somehow missing. Written as an upsert on the user_id unique
// index: MySQL counts only changed rows on UPDATE, so a rows-affected
// probe cannot tell "row missing" from "row already holds these values".
func (r *UserRepository) UpdateCoordinates(ctx context.Context, userID string, c geo.Coordinate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude"}),
		}).
		Create(&db.Location{
			UserID:    userID,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
		}).Error
}

// TouchLastOnline stamps the user's last-seen time. Throttling (update
// only every 30 minutes) is the caller's concern.
func (r *UserRepository) TouchLastOnline(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Update("last_online", at).Error
}

// AttachTags links the given tags to a user, creating missing tag rows
// by their unique (name, slug) pair.
func (r *UserRepository) AttachTags(ctx context.Context, userID string, tags []db.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tags {
			if err := tx.Where("name = ? AND slug = ?", tags[i].Name, tags[i].Slug).
				FirstOrCreate(&tags[i]).Error; err != nil {
				return err
			}
		}
		user := db.User{ID: userID}
		return tx.Model(&user).Association("Tags").Append(tags)
	})
}

// TagsForUsers loads tags for a set of user ids in one query, keyed by
// user id. Used to annotate candidate pages without N+1 lookups.
func (r *UserRepository) TagsForUsers(ctx context.Context, userIDs []string) (map[string][]db.Tag, error) {
	out := make(map[string][]db.Tag, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		UserID string
		ID     uint64
		Name   string
		Slug   string
	}
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("user_tags.user_id AS user_id, tags.id, tags.name, tags.slug").
		Joins("INNER JOIN user_tags ON user_tags.tag_id = tags.id").
		Where("user_tags.user_id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], db.Tag{ID: row.ID, Name: row.Name, Slug: row.Slug})
	}
	return out, nil
}
