package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, st := range Statuses {
		assert.True(t, st.Valid(), "%s", st)
	}
	assert.False(t, Status("bogus").Valid())
	assert.False(t, Status("").Valid())
}

func TestScaleValid(t *testing.T) {
	assert.True(t, ScaleDMOJ.Valid())
	assert.True(t, ScaleCF.Valid())
	assert.False(t, Scale("elo").Valid())
}

func TestProblemValue(t *testing.T) {
	p := Problem{Difficulty: 10, CFRating: 1225}
	assert.Equal(t, 10, p.Value(ScaleDMOJ))
	assert.Equal(t, 1225, p.Value(ScaleCF))
}

func TestHasAnyTag(t *testing.T) {
	p := Problem{Tags: []string{"math", "greedy algorithms"}}
	assert.True(t, p.HasAnyTag([]string{"greedy algorithms"}))
	assert.True(t, p.HasAnyTag([]string{"graph theory", "math"}))
	assert.False(t, p.HasAnyTag([]string{"graph theory"}))
	assert.False(t, p.HasAnyTag(nil))

	empty := Problem{Tags: []string{}}
	assert.False(t, empty.HasAnyTag([]string{"math"}))
}
