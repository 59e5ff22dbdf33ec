package study

import "math"

// TestQuestion is one multiple-choice question: the card, its generated
// options and the user's selection.
type TestQuestion struct {
	Card     Card
	Options  []string
	Selected string
	Answered bool
}

// TestResult is the terminal outcome of a test round.
type TestResult struct {
	Score      int
	Total      int
	Percentage int
	Correct    []bool
}

// TestRound is a self-contained sub-session over the entire working card
// sequence. Once submitted it is terminal; only a restart leaves it.
type TestRound struct {
	questions []TestQuestion
	pos       int
	result    *TestResult
}

// startTest builds one question per card in working order. Options are
// the correct answer plus up to three distractors sampled without
// replacement from the other cards' distinct answers, then shuffled.
func (s *Session) startTest() {
	questions := make([]TestQuestion, len(s.order))
	for qi, slot := range s.order {
		card := s.cards[slot]

		seen := map[string]bool{card.Answer: true}
		var pool []string
		for _, other := range s.cards {
			if other.ID == card.ID || seen[other.Answer] {
				continue
			}
			seen[other.Answer] = true
			pool = append(pool, other.Answer)
		}
		s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		if len(pool) > 3 {
			pool = pool[:3]
		}

		options := append([]string{card.Answer}, pool...)
		s.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

		questions[qi] = TestQuestion{Card: card, Options: options}
	}

	s.test = &TestRound{questions: questions}
}

// Test returns the active round, or nil outside test mode.
func (s *Session) Test() *TestRound { return s.test }

func (r *TestRound) Len() int            { return len(r.questions) }
func (r *TestRound) Position() int       { return r.pos }
func (r *TestRound) Submitted() bool     { return r.result != nil }
func (r *TestRound) Result() *TestResult { return r.result }

func (r *TestRound) Question(i int) TestQuestion { return r.questions[i] }

func (r *TestRound) CurrentQuestion() TestQuestion { return r.questions[r.pos] }

// AnsweredCount reports how many questions have a selection so far.
func (r *TestRound) AnsweredCount() int {
	count := 0
	for _, q := range r.questions {
		if q.Answered {
			count++
		}
	}
	return count
}

// SelectOption records the user's choice for the current question.
func (r *TestRound) SelectOption(option string) error {
	if r.Submitted() {
		return ErrTestFinished
	}
	r.questions[r.pos].Selected = option
	r.questions[r.pos].Answered = true
	return nil
}

// NextQuestion moves forward, clamped at the last question.
func (r *TestRound) NextQuestion() {
	if r.pos < len(r.questions)-1 {
		r.pos++
	}
}

// PreviousQuestion moves back, clamped at the first question.
func (r *TestRound) PreviousQuestion() {
	if r.pos > 0 {
		r.pos--
	}
}

// Submit grades the round: a question scores when the selection is
// exactly the card's stored answer. Terminal; further selections fail.
func (r *TestRound) Submit() (TestResult, error) {
	if r.Submitted() {
		return *r.result, ErrTestFinished
	}

	correct := make([]bool, len(r.questions))
	score := 0
	for i, q := range r.questions {
		correct[i] = q.Answered && q.Selected == q.Card.Answer
		if correct[i] {
			score++
		}
	}

	result := TestResult{
		Score:      score,
		Total:      len(r.questions),
		Percentage: int(math.Round(100 * float64(score) / float64(len(r.questions)))),
		Correct:    correct,
	}
	r.result = &result
	return result, nil
}
