package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewLevelProgress(&out)

	p.LevelStarted(1, 12)
	p.LevelFinished(1, 5)
	p.LevelStarted(2, 10)
	p.LevelFinished(2, 3)

	s := out.String()
	assert.Contains(t, s, "Level 1")
	assert.Contains(t, s, "level 1: 5 frequent")
	assert.Contains(t, s, "Level 2")
	assert.Contains(t, s, "level 2: 3 frequent")
	assert.Nil(t, p.bar)
}

func TestLevelProgress_CandidatesCounted(t *testing.T) {
	var out bytes.Buffer
	p := NewLevelProgress(&out)

	p.LevelStarted(2, 10)
	p.CandidatesCounted(2, 4)
	p.CandidatesCounted(2, 3)
	assert.Equal(t, int64(7), p.bar.State().CurrentNum)

	p.CandidatesCounted(2, 3)
	assert.Equal(t, int64(10), p.bar.State().CurrentNum)

	p.LevelFinished(2, 6)
	assert.Contains(t, out.String(), "level 2: 6 frequent")

	// no bar open
	p.CandidatesCounted(3, 5)
	assert.Nil(t, p.bar)
}

func TestLevelProgress_FinishWithoutStart(t *testing.T) {
	var out bytes.Buffer
	p := NewLevelProgress(&out)

	p.LevelFinished(1, 0)
	assert.Empty(t, out.String())
}

func TestNewLevelProgress_DefaultWriter(t *testing.T) {
	p := NewLevelProgress(nil)
	assert.NotNil(t, p.writer)
}
