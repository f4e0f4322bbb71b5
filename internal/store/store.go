// Package store owns the on-disk problem collection: a single JSON file
// rewritten wholesale on every save.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pbaille/probtrack/internal/domain"
	"github.com/pbaille/probtrack/internal/rating"
)

// ErrMalformed indicates the store file exists but could not be parsed
var ErrMalformed = errors.New("malformed problem store")

// Store handles persistence of the problem collection
type Store struct {
	path string
}

// New creates a Store backed by the given file path. The file does not need
// to exist yet; a missing file reads as an empty collection.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store reads and writes
func (s *Store) Path() string {
	return s.path
}

// diskProblem is the raw stored shape. Tags stay undecoded so Load can
// accept the legacy single-string form as well as the current list form.
type diskProblem struct {
	Name       string          `json:"name"`
	Platform   string          `json:"platform"`
	Link       string          `json:"link"`
	Difficulty int             `json:"difficulty"`
	CFRating   int             `json:"cf_rating"`
	Status     string          `json:"status"`
	Tags       json.RawMessage `json:"type"`
}

// Load reads the whole collection, migrating each record to the current
// schema: legacy bare-string tags become a one-element list, missing tags an
// empty list, unknown statuses fall back to unsolved, and cf_rating is
// recomputed from difficulty. If migration changed anything the corrected
// collection is written back before returning, so a Load can trigger a Save.
func (s *Store) Load() ([]domain.Problem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Problem{}, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	var raw []diskProblem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}

	problems := make([]domain.Problem, 0, len(raw))
	changed := false
	for _, r := range raw {
		p, c, err := migrate(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
		}
		changed = changed || c
		problems = append(problems, p)
	}

	if changed {
		if err := s.Save(problems); err != nil {
			return nil, fmt.Errorf("write back migrated store: %w", err)
		}
	}

	return problems, nil
}

// migrate normalizes one stored record and reports whether it was modified
func migrate(r diskProblem) (domain.Problem, bool, error) {
	p := domain.Problem{
		Name:       r.Name,
		Platform:   r.Platform,
		Link:       r.Link,
		Difficulty: r.Difficulty,
		CFRating:   r.CFRating,
		Status:     domain.Status(r.Status),
	}
	changed := false

	tags, tagsChanged, err := decodeTags(r.Tags)
	if err != nil {
		return domain.Problem{}, false, err
	}
	p.Tags = tags
	changed = changed || tagsChanged

	if !p.Status.Valid() {
		p.Status = domain.StatusUnsolved
		changed = true
	}

	want := rating.DifficultyToRating(p.Difficulty)
	if p.CFRating != want {
		p.CFRating = want
		changed = true
	}

	return p, changed, nil
}

// decodeTags accepts the current list form, the legacy bare-string form, and
// a missing field. The legacy and missing cases count as a migration.
func decodeTags(raw json.RawMessage) ([]string, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, true, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, false, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, false, fmt.Errorf("tags are neither list nor string: %s", raw)
	}
	if single == "" {
		return []string{}, true, nil
	}
	return []string{single}, true, nil
}

// Save rewrites the whole collection. The JSON is written to a temp file in
// the store's directory and renamed into place, so readers never observe a
// half-written collection.
func (s *Store) Save(problems []domain.Problem) error {
	data, err := json.MarshalIndent(problems, "", "    ")
	if err != nil {
		return fmt.Errorf("encode problems: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// AddRequest carries the raw field values for a new problem. Value is the
// difficulty or rating as entered; Scale says which system it was entered in.
type AddRequest struct {
	Name     string
	Platform string
	Link     string
	Value    int
	Scale    domain.Scale
	Tags     []string
}

// Add validates the request, fills in both scale values, appends the new
// problem with status unsolved and persists the collection. Nothing is
// written when validation fails.
func (s *Store) Add(req AddRequest) (*domain.Problem, error) {
	name := strings.TrimSpace(req.Name)
	platform := strings.TrimSpace(req.Platform)
	link := strings.TrimSpace(req.Link)

	switch {
	case name == "":
		return nil, fmt.Errorf("name is required")
	case platform == "":
		return nil, fmt.Errorf("platform is required")
	case link == "":
		return nil, fmt.Errorf("link is required")
	}
	if !req.Scale.Valid() {
		return nil, fmt.Errorf("unknown scale: %q", req.Scale)
	}

	var difficulty, cf int
	if req.Scale == domain.ScaleCF {
		cf = req.Value
		difficulty = rating.RatingToDifficulty(cf)
	} else {
		difficulty = req.Value
		cf = rating.DifficultyToRating(difficulty)
	}

	problems, err := s.Load()
	if err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	p := domain.Problem{
		Name:       name,
		Platform:   platform,
		Link:       link,
		Difficulty: difficulty,
		CFRating:   cf,
		Status:     domain.StatusUnsolved,
		Tags:       tags,
	}
	problems = append(problems, p)

	if err := s.Save(problems); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetStatus updates the first problem whose link exactly matches and reports
// whether one was found. Pure in-memory helper; persisting is the caller's
// job.
func SetStatus(problems []domain.Problem, link string, st domain.Status) bool {
	for i := range problems {
		if problems[i].Link == link {
			problems[i].Status = st
			return true
		}
	}
	return false
}

// UpdateStatus loads the collection, updates the problem identified by link
// and persists. Returns false (and writes nothing) when no problem matches.
func (s *Store) UpdateStatus(link string, st domain.Status) (bool, error) {
	if !st.Valid() {
		return false, fmt.Errorf("unknown status: %q", st)
	}

	problems, err := s.Load()
	if err != nil {
		return false, err
	}

	if !SetStatus(problems, link, st) {
		return false, nil
	}

	if err := s.Save(problems); err != nil {
		return false, err
	}
	return true, nil
}

// AllTags returns the tag vocabulary: the default tags plus every tag present
// in the collection, sorted and without duplicates.
func (s *Store) AllTags() ([]string, error) {
	problems, err := s.Load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, t := range domain.DefaultTags {
		seen[t] = true
	}
	for _, p := range problems {
		for _, t := range p.Tags {
			seen[t] = true
		}
	}

	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}
