// Package query filters and sorts problem collections for display. It never
// mutates its input and does no I/O.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pbaille/probtrack/internal/domain"
)

// Criteria describes an optional set of filters, combined with AND.
// Zero values mean "no filter" except Scale, which defaults to DMOJ.
type Criteria struct {
	// Platform is matched as a case-insensitive substring
	Platform string
	// Status must match exactly when set
	Status domain.Status
	// Scale selects which value MinRating/MaxRating and the sort apply to
	Scale domain.Scale
	// MinRating and MaxRating are inclusive bounds; nil means unbounded
	MinRating *int
	MaxRating *int
	// Tags passes problems sharing at least one tag with it (OR semantics)
	Tags []string
}

// ParseBound converts a user-entered bound string to a criteria bound.
// Empty means unbounded; anything non-numeric is a user input error.
func ParseBound(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("rating bound must be a number, got %q", s)
	}
	return &n, nil
}

// Apply returns the problems matching c, sorted ascending by their value on
// the selected scale. The sort is stable: problems with equal values keep
// their original relative order. The input slice is left untouched.
func Apply(problems []domain.Problem, c Criteria) []domain.Problem {
	scale := c.Scale
	if !scale.Valid() {
		scale = domain.ScaleDMOJ
	}
	platform := strings.ToLower(strings.TrimSpace(c.Platform))

	matched := make([]domain.Problem, 0, len(problems))
	for _, p := range problems {
		if platform != "" && !strings.Contains(strings.ToLower(p.Platform), platform) {
			continue
		}
		if c.Status != "" && p.Status != c.Status {
			continue
		}

		value := p.Value(scale)
		if c.MinRating != nil && value < *c.MinRating {
			continue
		}
		if c.MaxRating != nil && value > *c.MaxRating {
			continue
		}

		if len(c.Tags) > 0 && !p.HasAnyTag(c.Tags) {
			continue
		}

		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Value(scale) < matched[j].Value(scale)
	})

	return matched
}
