package domain

// Status tracks where a problem sits in the solving workflow
type Status string

const (
	StatusUnsolved Status = "unsolved"
	StatusSolving  Status = "solving"
	StatusSolved   Status = "solved"
	StatusSnoozed  Status = "snoozed"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusUnsolved, StatusSolving, StatusSolved, StatusSnoozed:
		return true
	}
	return false
}

// Statuses lists all valid statuses in workflow order
var Statuses = []Status{StatusUnsolved, StatusSolving, StatusSolved, StatusSnoozed}

// Scale selects which difficulty system a value is expressed in
type Scale string

const (
	// ScaleDMOJ is the primary scale; problems are entered against it
	ScaleDMOJ Scale = "dmoj"
	// ScaleCF is derived from DMOJ difficulty via the rating formula
	ScaleCF Scale = "cf"
)

// Valid reports whether sc is a known scale
func (sc Scale) Valid() bool {
	return sc == ScaleDMOJ || sc == ScaleCF
}

// Problem represents one tracked problem.
//
// The JSON field names match the on-disk store format; "type" holds the tag
// list for historical reasons (early stores used a single bare string there,
// which the store still accepts on read).
type Problem struct {
	Name       string   `json:"name"`
	Platform   string   `json:"platform"`
	Link       string   `json:"link"`
	Difficulty int      `json:"difficulty"`
	CFRating   int      `json:"cf_rating"`
	Status     Status   `json:"status"`
	Tags       []string `json:"type"`
}

// Value returns the problem's value on the given scale
func (p *Problem) Value(sc Scale) int {
	if sc == ScaleCF {
		return p.CFRating
	}
	return p.Difficulty
}

// HasAnyTag reports whether the problem carries at least one of the given tags
func (p *Problem) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range p.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// DefaultTags is the built-in tag vocabulary, always offered alongside
// whatever tags already exist in the store
var DefaultTags = []string{
	"math", "ad hoc", "string algorithms", "greedy algorithms",
	"data structures", "dynamic programming", "graph theory",
}
