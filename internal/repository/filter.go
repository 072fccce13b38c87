package repository

import (
	"strings"
	"time"

	"github.com/oggyb/matchmaker/internal/db"
)

// CandidateFilter is the recognized predicate set for candidate
// queries. All provided predicates are applied as a conjunction.
//
// Distance bounds are kept apart from the stored-field predicates:
// distance is a derived, request-relative expression, so those two
// fields are bound against the SQL distance expression directly and
// never go through the generic column pass.
type CandidateFilter struct {
	FirstName     string
	FirstNameLike string
	LastName      string
	LastNameLike  string
	Sex           db.Sex
	BirthDateLT   *time.Time
	BirthDateGT   *time.Time
	DistanceLT    *float64
	DistanceGT    *float64
	Search        string
	OrderBy       []string
}

// orderableColumns whitelists sortable fields. "distance" maps to the
// computed column alias, everything else to a stored column.
var orderableColumns = map[string]string{
	"first_name":  "users.first_name",
	"last_name":   "users.last_name",
	"sex":         "users.sex",
	"birth_date":  "users.birth_date",
	"last_online": "users.last_online",
	"distance":    "distance",
}

// OrderClause renders the requested ordering into a SQL ORDER BY body.
// Fields are taken in the given order, a "-" prefix means descending,
// unknown fields are dropped. Defaults to first name ascending; a
// users.id tiebreaker keeps pages stable under equal sort keys.
func (f CandidateFilter) OrderClause() string {
	fields := f.OrderBy
	if len(fields) == 0 {
		fields = []string{"first_name"}
	}

	var parts []string
	for _, field := range fields {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")

		col, ok := orderableColumns[field]
		if !ok {
			continue
		}
		if desc {
			parts = append(parts, col+" DESC")
		} else {
			parts = append(parts, col+" ASC")
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "users.first_name ASC")
	}

	parts = append(parts, "users.id ASC")
	return strings.Join(parts, ", ")
}
