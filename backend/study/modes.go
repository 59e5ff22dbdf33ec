package study

import "strings"

// Confidence tiers selectable in learn mode.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// LearnState is the per-card sub-state of learn mode.
type LearnState struct {
	AnswerShown    bool
	LastConfidence *Confidence
}

// WriteState is the per-card sub-state of write mode.
type WriteState struct {
	Submitted bool
	Answer    string
	Correct   bool
}

func (s *Session) Learn() LearnState { return s.learn }
func (s *Session) Write() WriteState { return s.write }

// ShowAnswer reveals the current card's answer in learn mode.
func (s *Session) ShowAnswer() error {
	if s.mode != ModeLearn {
		return ErrWrongMode
	}
	s.learn.AnswerShown = true
	return nil
}

// SelectConfidence records how confident the user felt about the answer.
// High confidence marks the card mastered. Any tier advances to the next
// card and hides the answer again; the UI owns the short delay before
// the advance.
func (s *Session) SelectConfidence(tier Confidence) error {
	if s.mode != ModeLearn {
		return ErrWrongMode
	}
	if !s.learn.AnswerShown {
		return ErrAnswerHidden
	}

	if tier == ConfidenceHigh {
		s.markMastered()
	}
	s.learn.LastConfidence = &tier
	s.Next()
	return nil
}

// SubmitAnswer grades a free-text answer against the stored one:
// whitespace-trimmed, case-insensitive exact match. A correct answer
// marks the card mastered. Advancing is a separate user action.
func (s *Session) SubmitAnswer(text string) (bool, error) {
	if s.mode != ModeWrite {
		return false, ErrWrongMode
	}

	correct := gradeWritten(text, s.Current().Answer)
	s.write = WriteState{
		Submitted: true,
		Answer:    text,
		Correct:   correct,
	}
	if correct {
		s.markMastered()
	}
	return correct, nil
}

func gradeWritten(submitted, stored string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(stored))
}
