// Package study drives a flashcard study session: an ordered sequence of
// cards with position, flip and mastery state, an optional shuffled order,
// and four review modes (cards, learn, write, test). All transitions are
// synchronous; the only side effect is the targeted mastery write, whose
// failure never rolls back local state.
package study

import (
	"errors"
	"log"
	"math/rand"
	"os"
	"time"
)

type Mode int

const (
	ModeCards Mode = iota
	ModeLearn
	ModeWrite
	ModeTest
)

func (m Mode) String() string {
	switch m {
	case ModeLearn:
		return "learn"
	case ModeWrite:
		return "write"
	case ModeTest:
		return "test"
	default:
		return "cards"
	}
}

// Card is one flashcard as fetched from the API.
type Card struct {
	ID         uint
	Question   string
	Answer     string
	Hint       string
	Notes      string
	Difficulty string
	Bookmarked bool
}

// Persister saves one card's mastery flag. Implementations talk to the
// bookmark endpoint; the session logs failures and moves on.
type Persister interface {
	SetMastered(cardID uint, mastered bool) error
}

var (
	ErrNoCards       = errors.New("study: session needs at least one card")
	ErrWrongMode     = errors.New("study: event not valid in current mode")
	ErrAnswerHidden  = errors.New("study: answer not shown yet")
	ErrTestNotActive = errors.New("study: no test round in progress")
	ErrTestFinished  = errors.New("study: test already submitted")
)

type Session struct {
	cards []Card // canonical order as fetched
	order []int  // working permutation into cards

	pos      int
	revealed bool
	mastered []bool // indexed by canonical slot
	mode     Mode
	shuffled bool

	rng     *rand.Rand
	persist Persister
	logger  *log.Logger

	learn LearnState
	write WriteState
	test  *TestRound
}

type Option func(*Session)

// WithSeed makes shuffle and test-option order deterministic.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

func WithPersister(p Persister) Option {
	return func(s *Session) { s.persist = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func NewSession(cards []Card, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	s := &Session{
		cards:    cards,
		order:    identityOrder(len(cards)),
		mastered: make([]bool, len(cards)),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   log.New(os.Stderr, "[study] ", log.LstdFlags),
	}
	for i, card := range cards {
		s.mastered[i] = card.Bookmarked
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func (s *Session) Len() int       { return len(s.cards) }
func (s *Session) Position() int  { return s.pos }
func (s *Session) Revealed() bool { return s.revealed }
func (s *Session) Mode() Mode     { return s.mode }
func (s *Session) Shuffled() bool { return s.shuffled }

// Current returns the card at the working position.
func (s *Session) Current() Card {
	return s.cards[s.order[s.pos]]
}

// SetMode switches review mode, clearing per-card sub-state. Entering
// test mode starts a fresh round over the whole working sequence.
func (s *Session) SetMode(mode Mode) {
	s.mode = mode
	s.revealed = false
	s.learn = LearnState{}
	s.write = WriteState{}
	if mode == ModeTest {
		s.startTest()
	} else {
		s.test = nil
	}
}

// Next moves forward one card, clamped at the end. Flip and per-card
// mode sub-state reset on every move.
func (s *Session) Next() {
	if s.pos < len(s.order)-1 {
		s.pos++
	}
	s.resetCardState()
}

// Previous moves back one card, clamped at the start.
func (s *Session) Previous() {
	if s.pos > 0 {
		s.pos--
	}
	s.resetCardState()
}

func (s *Session) resetCardState() {
	s.revealed = false
	// The last-selected confidence tier survives the move; only the
	// per-card reveal state clears.
	s.learn = LearnState{LastConfidence: s.learn.LastConfidence}
	s.write = WriteState{}
}

// Flip toggles the answer face. Cards mode only.
func (s *Session) Flip() error {
	if s.mode != ModeCards {
		return ErrWrongMode
	}
	s.revealed = !s.revealed
	return nil
}

// IsMastered reports the mastery flag of the current card.
func (s *Session) IsMastered() bool {
	return s.mastered[s.order[s.pos]]
}

// MasteredCount returns how many cards are currently flagged mastered.
func (s *Session) MasteredCount() int {
	count := 0
	for _, m := range s.mastered {
		if m {
			count++
		}
	}
	return count
}

// ToggleMastered flips the current card's mastery flag locally, then
// writes it through the persister. A write failure is logged and the
// local flag stands; store and session may diverge until the next
// successful write.
func (s *Session) ToggleMastered() bool {
	slot := s.order[s.pos]
	s.mastered[slot] = !s.mastered[slot]
	s.persistMastery(s.cards[slot].ID, s.mastered[slot])
	return s.mastered[slot]
}

// markMastered sets (never clears) mastery, used by learn and write mode
// side effects.
func (s *Session) markMastered() {
	slot := s.order[s.pos]
	if s.mastered[slot] {
		return
	}
	s.mastered[slot] = true
	s.persistMastery(s.cards[slot].ID, true)
}

func (s *Session) persistMastery(cardID uint, mastered bool) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SetMastered(cardID, mastered); err != nil {
		s.logger.Printf("mastery write failed for card %d: %v", cardID, err)
	}
}

// Shuffle replaces the working order with a fresh random permutation and
// rewinds to the first card.
func (s *Session) Shuffle() {
	s.order = s.rng.Perm(len(s.cards))
	s.pos = 0
	s.shuffled = true
	s.resetCardState()
	if s.mode == ModeTest {
		s.startTest()
	}
}

// Unshuffle re-derives the canonical fetch order rather than trying to
// invert the permutation.
func (s *Session) Unshuffle() {
	s.order = identityOrder(len(s.cards))
	s.pos = 0
	s.shuffled = false
	s.resetCardState()
	if s.mode == ModeTest {
		s.startTest()
	}
}

// Restart rewinds the session to the first card with nothing revealed.
// Mastery flags survive; they are persisted state, not session state.
func (s *Session) Restart() {
	s.pos = 0
	s.resetCardState()
	if s.mode == ModeTest {
		s.startTest()
	}
}

// Keyboard keys dispatched in cards mode.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeySpace      = " "
)

// HandleKey maps keyboard events to transitions. Cards mode only; other
// modes ignore keys entirely.
func (s *Session) HandleKey(key string) {
	if s.mode != ModeCards {
		return
	}
	switch key {
	case KeyArrowRight:
		s.Next()
	case KeyArrowLeft:
		s.Previous()
	case KeySpace:
		_ = s.Flip()
	}
}
