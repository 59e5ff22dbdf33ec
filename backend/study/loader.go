package study

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client fetches set data from the QuizNest API and writes mastery flags
// back through the targeted bookmark endpoint. It satisfies Persister,
// so a session built by LoadSession persists toggles automatically.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type cardPayload struct {
	ID           uint   `json:"id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Hint         string `json:"hint"`
	Notes        string `json:"notes"`
	Difficulty   string `json:"difficulty"`
	IsBookmarked bool   `json:"isBookmarked"`
}

type setPayload struct {
	ID         uint          `json:"id"`
	Title      string        `json:"title"`
	Flashcards []cardPayload `json:"flashcards"`
}

// LoadSession fetches a set and opens a study session over its cards.
// Any fetch or decode failure is fatal to the session: no mode can be
// entered without the card sequence.
func (cl *Client) LoadSession(setID uint, opts ...Option) (*Session, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/sets/%d", cl.BaseURL, setID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cl.Token)

	resp, err := cl.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("study: loading set %d: %w", setID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("study: loading set %d: unexpected status %d", setID, resp.StatusCode)
	}

	var payload setPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("study: decoding set %d: %w", setID, err)
	}

	cards := make([]Card, len(payload.Flashcards))
	for i, c := range payload.Flashcards {
		cards[i] = Card{
			ID:         c.ID,
			Question:   c.Question,
			Answer:     c.Answer,
			Hint:       c.Hint,
			Notes:      c.Notes,
			Difficulty: c.Difficulty,
			Bookmarked: c.IsBookmarked,
		}
	}

	opts = append([]Option{WithPersister(cl)}, opts...)
	return NewSession(cards, opts...)
}

// SetMastered writes one card's mastery flag through the bookmark
// endpoint. No retries; the session treats failures as non-fatal.
func (cl *Client) SetMastered(cardID uint, mastered bool) error {
	body, err := json.Marshal(map[string]bool{"bookmarked": mastered})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/flashcards/%d/bookmark", cl.BaseURL, cardID),
		bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+cl.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := cl.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("study: bookmark write for card %d: unexpected status %d", cardID, resp.StatusCode)
	}
	return nil
}
