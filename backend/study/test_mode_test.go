package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestRoundOptions(t *testing.T) {
	s, _ := NewSession(testCards(), WithSeed(1))
	s.SetMode(ModeTest)

	round := s.Test()
	assert.NotNil(t, round)
	assert.Equal(t, s.Len(), round.Len())

	for i := 0; i < round.Len(); i++ {
		q := round.Question(i)
		assert.Len(t, q.Options, 4)

		// The correct answer is always among the options, distractors
		// are distinct and never the correct answer itself
		seen := map[string]int{}
		for _, opt := range q.Options {
			seen[opt]++
		}
		assert.Equal(t, 1, seen[q.Card.Answer])
		assert.Len(t, seen, 4)
	}
}

func TestTestRoundWithFewDistractors(t *testing.T) {
	cards := []Card{
		{ID: 1, Question: "q1", Answer: "a1"},
		{ID: 2, Question: "q2", Answer: "a2"},
	}
	s, _ := NewSession(cards, WithSeed(1))
	s.SetMode(ModeTest)

	// Only one other answer exists, so two options total
	q := s.Test().Question(0)
	assert.Len(t, q.Options, 2)
}

func TestTestNavigationClamped(t *testing.T) {
	s, _ := NewSession(testCards(), WithSeed(1))
	s.SetMode(ModeTest)
	round := s.Test()

	for i := 0; i < 20; i++ {
		round.NextQuestion()
	}
	assert.Equal(t, round.Len()-1, round.Position())

	for i := 0; i < 20; i++ {
		round.PreviousQuestion()
	}
	assert.Equal(t, 0, round.Position())
}

func TestTestScoring(t *testing.T) {
	s, _ := NewSession(testCards(), WithSeed(1))
	s.SetMode(ModeTest)
	round := s.Test()

	// Answer three correctly, one wrong, one not at all
	answers := []string{"Paris", "Madrid", "Rome", "Lisbon", ""}
	for _, answer := range answers {
		if answer != "" {
			assert.NoError(t, round.SelectOption(answer))
		}
		round.NextQuestion()
	}

	result, err := round.Submit()
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 60, result.Percentage)
	assert.Equal(t, []bool{true, true, true, false, false}, result.Correct)

	// Terminal: further selections and submits are rejected
	assert.True(t, round.Submitted())
	assert.ErrorIs(t, round.SelectOption("Paris"), ErrTestFinished)
	_, err = round.Submit()
	assert.ErrorIs(t, err, ErrTestFinished)
}

func TestTestRestartLeavesTerminalState(t *testing.T) {
	s, _ := NewSession(testCards(), WithSeed(1))
	s.SetMode(ModeTest)

	_, err := s.Test().Submit()
	assert.NoError(t, err)
	assert.True(t, s.Test().Submitted())

	s.Restart()
	assert.False(t, s.Test().Submitted())
	assert.Equal(t, 0, s.Test().Position())
}
