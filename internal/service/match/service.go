// Package match implements the like state machine. Each ordered pair
// of users moves NoEdge -> Pending -> Mutual, never backwards: a like
// records a pending edge, and a reciprocal like commits both edges
// mutual and notifies both parties.
package match

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/notify"
	"github.com/oggyb/matchmaker/internal/repository"
)

// Status is the reported outcome of a like.
type Status string

const (
	StatusPending Status = "pending"
	StatusMutual  Status = "mutual"
)

// Result describes what a like produced.
type Result struct {
	Status    Status    `json:"status"`
	MatchedAt time.Time `json:"matched_at"`
}

// Service coordinates a like end to end: validation, ledger writes,
// mutuality detection and the notification trigger.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	matches  *repository.MatchRepository
	notifier notify.Notifier
}

// NewService creates the match service with dependencies from
// AppContext plus the notification collaborator.
func NewService(appCtx *app.AppContext, notifier notify.Notifier) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		matches:  repository.NewMatchRepository(appCtx.DB),
		notifier: notifier,
	}
}

// Like records actor's like of targetID.
//
// Preconditions, in order: the target is not the actor, the target
// exists, and no forward edge is recorded yet — a repeated like is
// rejected even when the pair is already mutual. On success the edge
// is created pending; if the reverse edge exists, both are committed
// mutual and each party gets exactly one notice.
func (s *Service) Like(ctx context.Context, actor *db.User, targetID string) (Result, error) {
	if actor.ID == targetID {
		return Result{}, svcErr.SelfAction("You cannot match with yourself")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, svcErr.NotFound("User not found")
		}
		return Result{}, svcErr.Map(err)
	}

	exists, err := s.matches.EdgeExists(ctx, actor.ID, target.ID)
	if err != nil {
		return Result{}, svcErr.Map(err)
	}
	if exists {
		return Result{}, svcErr.Duplicate("You have already liked this user")
	}

	edge, err := s.matches.CreateEdge(ctx, actor.ID, target.ID)
	if err != nil {
		// The unique pair index catches likes that raced past the
		// existence check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Result{}, svcErr.Duplicate("You have already liked this user")
		}
		return Result{}, svcErr.Map(err)
	}

	// Received-like counter, best effort.
	if err := s.appCtx.RedisCache.IncrLikeCount(ctx, target.ID); err != nil {
		s.appCtx.Logger.Warn("like count update failed", "user", target.ID, "err", err)
	}

	reverse, err := s.matches.FindReverseEdge(ctx, actor.ID, target.ID)
	if err != nil {
		return Result{}, svcErr.Map(err)
	}
	if reverse == nil {
		s.appCtx.Logger.Debug("like recorded", "actor", actor.ID, "target", target.ID)
		return Result{Status: StatusPending, MatchedAt: edge.MatchedAt}, nil
	}

	if err := s.matches.CommitMutual(ctx, edge, reverse); err != nil {
		return Result{}, svcErr.Map(err)
	}

	// Notices sit outside the transaction boundary: a failed send is
	// logged, never retried, and never rolls back the match.
	if err := s.notifier.MatchFound(actor.Email, target); err != nil {
		s.appCtx.Logger.Warn("match notice failed", "recipient", actor.ID, "err", err)
	}
	if err := s.notifier.MatchFound(target.Email, actor); err != nil {
		s.appCtx.Logger.Warn("match notice failed", "recipient", target.ID, "err", err)
	}

	s.appCtx.Logger.Info("mutual match", "a", actor.ID, "b", target.ID)
	return Result{Status: StatusMutual, MatchedAt: edge.MatchedAt}, nil
}
