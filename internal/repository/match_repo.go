package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db"
)

// MatchRepository is the ledger of directed like edges. It records
// edges and commits reciprocal pairs as mutual; the like-flow policy
// (self checks, duplicate messages, notifications) lives in the match
// service.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB
// connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// EdgeExists reports whether the exact directed edge liker -> likee is
// recorded, regardless of mutuality.
func (r *MatchRepository) EdgeExists(ctx context.Context, likerID, likeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_id = ? AND matched_user_id = ?", likerID, likeeID).
		Count(&count).Error
	return count > 0, err
}

// CreateEdge inserts a new directed edge with is_mutual=false. The
// unique index on the ordered pair turns a concurrent duplicate into
// gorm.ErrDuplicatedKey, which callers surface as a duplicate action.
func (r *MatchRepository) CreateEdge(ctx context.Context, likerID, likeeID string) (*db.Match, error) {
	edge := db.Match{
		UserID:        likerID,
		MatchedUserID: likeeID,
		IsMutual:      false,
		MatchedAt:     time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// FindEdge returns the directed edge liker -> likee, or nil when no
// such edge exists.
func (r *MatchRepository) FindEdge(ctx context.Context, likerID, likeeID string) (*db.Match, error) {
	var edge db.Match
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND matched_user_id = ?", likerID, likeeID).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// FindReverseEdge returns the edge likee -> liker, i.e. whether the
// other party already liked back.
func (r *MatchRepository) FindReverseEdge(ctx context.Context, likerID, likeeID string) (*db.Match, error) {
	return r.FindEdge(ctx, likeeID, likerID)
}

// CommitMutual flags both edges of a reciprocal pair mutual in a single
// transaction. Idempotent: re-committing already-mutual edges is a
// no-op update.
func (r *MatchRepository) CommitMutual(ctx context.Context, a, b *db.Match) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Match{}).
			Where("id IN ?", []uint64{a.ID, b.ID}).
			Update("is_mutual", true).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.IsMutual = true
	b.IsMutual = true
	return nil
}

// CountReceived returns how many users have liked the given user.
// Backs the cached liked-you counter; the DB is the fallback source.
func (r *MatchRepository) CountReceived(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("matched_user_id = ?", userID).
		Count(&count).Error
	return count, err
}
