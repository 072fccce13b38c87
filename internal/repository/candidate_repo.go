package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/geo"
	"github.com/oggyb/matchmaker/internal/utils/pagination"
)

// Candidate is one ranked result: the user row plus the computed
// distance from the requester. Distance lives here, not on db.User,
// because it only exists for the duration of one query.
type Candidate struct {
	db.User
	Distance float64
}

// ListCandidates returns one page of candidates for a requester located
// at from, plus the total row count for the filter.
//
// The query excludes the requester's own row, every user the requester
// has already liked (regardless of mutuality), inactive users, and
// users without a location row (their distance is undefined). Distance
// is computed and rounded in SQL, so the distance bounds and ordering
// are pushed down rather than applied after materializing the table.
func (r *UserRepository) ListCandidates(
	ctx context.Context,
	requesterID string,
	from geo.Coordinate,
	filter CandidateFilter,
	params pagination.Params,
) ([]Candidate, int64, error) {
	var total int64
	if err := r.candidateQuery(ctx, requesterID, from, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var candidates []Candidate
	err := r.candidateQuery(ctx, requesterID, from, filter).
		Select("users.*, "+geo.SQLDistanceExpr+" AS distance", geo.SQLDistanceArgs(from)...).
		Order(filter.OrderClause()).
		Offset(params.Offset()).
		Limit(params.Size).
		Scan(&candidates).Error
	if err != nil {
		return nil, 0, err
	}

	return candidates, total, nil
}

// candidateQuery builds the filtered FROM/WHERE shared by the count and
// page queries. Built fresh for each use so the two cannot contaminate
// each other's statements.
func (r *UserRepository) candidateQuery(
	ctx context.Context,
	requesterID string,
	from geo.Coordinate,
	filter CandidateFilter,
) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&db.User{}).
		Joins("INNER JOIN locations ON locations.user_id = users.id").
		Where("users.id <> ?", requesterID).
		Where("users.active = ?", true).
		Where("NOT EXISTS (SELECT 1 FROM matches WHERE matches.user_id = ? AND matches.matched_user_id = users.id)", requesterID)

	// Computed-field predicates: bound against the distance expression
	// itself. The WHERE clause cannot reference the select alias on
	// either supported dialect, so the expression is repeated.
	if filter.DistanceLT != nil {
		q = q.Where(geo.SQLDistanceExpr+" < ?", distArgs(from, *filter.DistanceLT)...)
	}
	if filter.DistanceGT != nil {
		q = q.Where(geo.SQLDistanceExpr+" > ?", distArgs(from, *filter.DistanceGT)...)
	}

	// Stored-field predicates, ANDed.
	if filter.FirstName != "" {
		q = q.Where("users.first_name = ?", filter.FirstName)
	}
	if filter.FirstNameLike != "" {
		q = q.Where("LOWER(users.first_name) LIKE ? ESCAPE '\\'", containsPattern(filter.FirstNameLike))
	}
	if filter.LastName != "" {
		q = q.Where("users.last_name = ?", filter.LastName)
	}
	if filter.LastNameLike != "" {
		q = q.Where("LOWER(users.last_name) LIKE ? ESCAPE '\\'", containsPattern(filter.LastNameLike))
	}
	if filter.Sex != "" {
		q = q.Where("users.sex = ?", filter.Sex)
	}
	if filter.BirthDateLT != nil {
		q = q.Where("users.birth_date < ?", *filter.BirthDateLT)
	}
	if filter.BirthDateGT != nil {
		q = q.Where("users.birth_date > ?", *filter.BirthDateGT)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(users.first_name) LIKE ? ESCAPE '\\'", containsPattern(filter.Search))
	}

	return q
}

func distArgs(from geo.Coordinate, bound float64) []interface{} {
	return append(geo.SQLDistanceArgs(from), bound)
}

func containsPattern(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return "%" + s + "%"
}
