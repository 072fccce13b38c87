// Package clients serves the requester-facing directory: the ranked
// candidate page, coordinate updates and the requester's own profile.
package clients

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/geo"
	"github.com/oggyb/matchmaker/internal/repository"
	"github.com/oggyb/matchmaker/internal/utils/pagination"
	"github.com/oggyb/matchmaker/internal/validate"
)

// TagOut is a tag as presented to clients.
type TagOut struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// UserOut is a candidate as presented to the requester: profile fields
// plus the computed distance. DistanceTo is never persisted; it is
// relative to the requester of this one query.
type UserOut struct {
	ID         string   `json:"id"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Sex        db.Sex   `json:"sex"`
	Photo      string   `json:"photo"`
	Age        int      `json:"age"`
	DistanceTo float64  `json:"distance_to"`
	Tags       []TagOut `json:"tags"`
}

// Coordinates is the requester's stored location as presented back
// after an update.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Profile is the requester's own record, including the cached count of
// likes they have received.
type Profile struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Sex           db.Sex   `json:"sex"`
	Photo         string   `json:"photo"`
	Age           int      `json:"age"`
	Tags          []TagOut `json:"tags"`
	LikesReceived int64    `json:"likes_received"`
}

// Service contains the candidate discovery logic on top of the
// repository and cache layers.
type Service struct {
	appCtx  *app.AppContext
	users   *repository.UserRepository
	matches *repository.MatchRepository
}

// NewService creates the clients service with dependencies from
// AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		users:   repository.NewUserRepository(appCtx.DB),
		matches: repository.NewMatchRepository(appCtx.DB),
	}
}

// ListCandidates returns one page of candidates for the requester.
// The requester must have a stored location; without one the distance
// ranking is undefined and the call fails rather than returning zero
// distances. Read-only: no state changes.
func (s *Service) ListCandidates(
	ctx context.Context,
	requester *db.User,
	filter repository.CandidateFilter,
	params pagination.Params,
) (pagination.Page[UserOut], error) {
	from, err := s.users.GetCoordinates(ctx, requester.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pagination.Page[UserOut]{}, svcErr.PreconditionFailed("Set your location before browsing candidates")
		}
		return pagination.Page[UserOut]{}, svcErr.Map(err)
	}

	candidates, total, err := s.users.ListCandidates(ctx, requester.ID, from, filter, params)
	if err != nil {
		return pagination.Page[UserOut]{}, svcErr.Map(err)
	}

	ids := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		ids = append(ids, cand.ID)
	}
	tagsByUser, err := s.users.TagsForUsers(ctx, ids)
	if err != nil {
		return pagination.Page[UserOut]{}, svcErr.Map(err)
	}

	now := time.Now().UTC()
	items := make([]UserOut, 0, len(candidates))
	for _, cand := range candidates {
		items = append(items, UserOut{
			ID:         cand.ID,
			FirstName:  cand.FirstName,
			LastName:   cand.LastName,
			Sex:        cand.Sex,
			Photo:      cand.Photo,
			Age:        validate.Age(cand.BirthDate, now),
			DistanceTo: cand.Distance,
			Tags:       tagsOut(tagsByUser[cand.ID]),
		})
	}

	s.appCtx.Logger.Debug("candidate page served",
		"requester", requester.ID, "count", len(items), "total", total)

	return pagination.NewPage(items, total, params), nil
}

// UpdateCoordinates validates and stores the requester's new location.
func (s *Service) UpdateCoordinates(ctx context.Context, requester *db.User, c Coordinates) (Coordinates, error) {
	if err := validate.Coordinates(c.Latitude, c.Longitude); err != nil {
		return Coordinates{}, err
	}
	coord := geo.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}
	if err := s.users.UpdateCoordinates(ctx, requester.ID, coord); err != nil {
		return Coordinates{}, svcErr.Map(err)
	}
	return c, nil
}

// Me returns the requester's own profile with the received-like count,
// cache first with the ledger as fallback.
func (s *Service) Me(ctx context.Context, requester *db.User) (Profile, error) {
	count, hit, err := s.appCtx.RedisCache.GetLikeCount(ctx, requester.ID)
	if err != nil {
		s.appCtx.Logger.Warn("like count cache read failed", "user", requester.ID, "err", err)
		hit = false
	}
	if !hit {
		count, err = s.matches.CountReceived(ctx, requester.ID)
		if err != nil {
			return Profile{}, svcErr.Map(err)
		}
		if err := s.appCtx.RedisCache.SetLikeCount(ctx, requester.ID, count); err != nil {
			s.appCtx.Logger.Warn("like count cache write failed", "user", requester.ID, "err", err)
		}
	}

	return Profile{
		ID:            requester.ID,
		Email:         requester.Email,
		FirstName:     requester.FirstName,
		LastName:      requester.LastName,
		Sex:           requester.Sex,
		Photo:         requester.Photo,
		Age:           validate.Age(requester.BirthDate, time.Now().UTC()),
		Tags:          tagsOut(requester.Tags),
		LikesReceived: count,
	}, nil
}

func tagsOut(tags []db.Tag) []TagOut {
	out := make([]TagOut, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagOut{Name: t.Name, Slug: t.Slug})
	}
	return out
}
