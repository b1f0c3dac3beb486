// Package deck is the reference host's data source: an ordered list of cards
// with stable IDs, and stores that persist decks between sessions.
//
// A *Deck answers every host query of the layout controller: it reports the
// item count, decides which cards may be dragged and where, and reorders
// itself when a move is accepted.
//
// Backends:
//   - FileStore: JSON files under ~/.config/cardstack/decks/, for the CLI
//   - RedisStore: shared storage for preview servers
//   - MongoStore: document storage
//
// Stores follow one contract: Get returns nil, nil when the deck does not
// exist.
package deck

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/layout"
)

// Card is one item of a deck.
type Card struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
	Color string `json:"color,omitempty" bson:"color,omitempty"`
	// Pinned cards cannot be dragged and other cards cannot be dropped onto
	// their position.
	Pinned bool `json:"pinned,omitempty" bson:"pinned,omitempty"`
}

// Deck is an ordered list of cards.
type Deck struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Cards     []Card    `json:"cards" bson:"cards"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Palette is the default card color cycle.
var Palette = []string{"#e76f51", "#f4a261", "#e9c46a", "#2a9d8f", "#264653", "#8ab17d", "#b56576"}

// New creates a deck with one card per title.
func New(name string, titles ...string) *Deck {
	now := time.Now().UTC()
	d := &Deck{
		ID:        uuid.NewString(),
		Name:      name,
		Cards:     make([]Card, 0, len(titles)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, t := range titles {
		d.Add(t)
	}
	return d
}

// Sample creates a deck of n numbered cards.
func Sample(n int) *Deck {
	titles := make([]string, n)
	for i := range titles {
		titles[i] = fmt.Sprintf("Card %d", i+1)
	}
	return New("sample", titles...)
}

// Validate checks that every card has a well-formed, unique ID.
func (d *Deck) Validate() error {
	if _, err := uuid.Parse(d.ID); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "deck id %q", d.ID)
	}
	seen := make(map[string]bool, len(d.Cards))
	for i, c := range d.Cards {
		if _, err := uuid.Parse(c.ID); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidFormat, err, "card %d id %q", i, c.ID)
		}
		if seen[c.ID] {
			return errs.New(errs.ErrCodeInvalidFormat, "duplicate card id %s", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// Add appends a card and returns it.
func (d *Deck) Add(title string) Card {
	c := Card{
		ID:    uuid.NewString(),
		Title: title,
		Color: Palette[len(d.Cards)%len(Palette)],
	}
	d.Cards = append(d.Cards, c)
	d.touch()
	return c
}

// Remove deletes the card with the given ID.
func (d *Deck) Remove(id string) error {
	i, ok := d.Index(id)
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "card %s", id)
	}
	d.Cards = slices.Delete(d.Cards, i, i+1)
	d.touch()
	return nil
}

// Index returns the position of the card with the given ID.
func (d *Deck) Index(id string) (int, bool) {
	i := slices.IndexFunc(d.Cards, func(c Card) bool { return c.ID == id })
	return i, i >= 0
}

// SetPinned pins or unpins card i.
func (d *Deck) SetPinned(i int, pinned bool) error {
	if err := errs.ValidateIndex("card", i, len(d.Cards)); err != nil {
		return err
	}
	d.Cards[i].Pinned = pinned
	d.touch()
	return nil
}

// Titles returns the card titles in order.
func (d *Deck) Titles() []string {
	out := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		out[i] = c.Title
	}
	return out
}

// Count returns the number of cards.
func (d *Deck) Count() int { return len(d.Cards) }

// CanMove reports whether card i may be dragged.
func (d *Deck) CanMove(i int) bool {
	return i >= 0 && i < len(d.Cards) && !d.Cards[i].Pinned
}

// Retarget rejects drops onto a pinned card's position.
func (d *Deck) Retarget(_, proposed int) layout.Index {
	if proposed < 0 || proposed >= len(d.Cards) || d.Cards[proposed].Pinned {
		return layout.NoIndex
	}
	return layout.IndexOf(proposed)
}

// OnMove moves card from to position to, shifting the cards in between.
func (d *Deck) OnMove(from, to int) {
	c := d.Cards[from]
	d.Cards = slices.Delete(d.Cards, from, from+1)
	d.Cards = slices.Insert(d.Cards, to, c)
	d.touch()
}

func (d *Deck) touch() { d.UpdatedAt = time.Now().UTC() }

// Store persists decks.
type Store interface {
	// Get retrieves a deck by ID. Returns nil, nil if it does not exist.
	Get(ctx context.Context, id string) (*Deck, error)

	// Set stores a deck.
	Set(ctx context.Context, d *Deck) error

	// Delete removes a deck. Deleting a missing deck is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored decks.
	List(ctx context.Context) ([]string, error)

	// Close releases the backend.
	Close() error
}
