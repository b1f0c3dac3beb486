package cli

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardstack/pkg/deck"
)

func TestCardLine(t *testing.T) {
	tests := []struct {
		name    string
		card    deck.Card
		want    []string
		notWant string
	}{
		{"plain", deck.Card{Title: "Laundry", Color: "#4e79a7"}, []string{"  0", "Laundry"}, iconPin},
		{"pinned", deck.Card{Title: "Dishes", Pinned: true}, []string{iconPin, "Dishes", "··"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cardLine(0, tt.card)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("cardLine = %q, missing %q", got, w)
				}
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("cardLine = %q, should not contain %q", got, tt.notWant)
			}
		})
	}
}

func TestDeckLine(t *testing.T) {
	d := deck.New("chores", "Laundry", "Dishes", "Groceries")
	if got := deckLine(d); !strings.Contains(got, "(3 cards)") || !strings.Contains(got, d.ID) {
		t.Errorf("deckLine = %q", got)
	}
	if err := d.SetPinned(1, true); err != nil {
		t.Fatal(err)
	}
	if got := deckLine(d); !strings.Contains(got, "(3 cards, 1 pinned)") {
		t.Errorf("deckLine with a pin = %q", got)
	}
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		cards       int
		arrangement string
		cached      bool
		want        []string
	}{
		{4, "stacked", false, []string{"4 cards", "stacked", iconFresh}},
		{6, "exposed", true, []string{"6 cards", "exposed", iconCached}},
		{0, "", false, []string{"0 cards", iconFresh}},
	}
	for _, tt := range tests {
		got := statsLine(tt.cards, tt.arrangement, tt.cached)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("statsLine(%d, %q, %v) = %q, missing %q", tt.cards, tt.arrangement, tt.cached, got, w)
			}
		}
	}
}

func TestTitlesFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lines", "Laundry\nDishes\n", []string{"Laundry", "Dishes"}},
		{"crlf and blanks", "Laundry\r\n\r\n  Dishes  \r\n", []string{"Laundry", "Dishes"}},
		{"bullets", "- Laundry\n* Dishes\n• Groceries", []string{"Laundry", "Dishes", "Groceries"}},
		{"empty", " \n\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, titlesFromText(tt.text)); diff != "" {
				t.Errorf("titlesFromText mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
