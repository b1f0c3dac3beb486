package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cardstack/pkg/deck"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // selection, indices
	colorGreen  = lipgloss.Color("35")  // exposed card, success
	colorYellow = lipgloss.Color("220") // moving card, pins, warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // links, commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text, borders
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for deck names and headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for card indices and counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warnings and pinned cards.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconPin     = "▪"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// printStats prints a one-line summary of a layout pass: card count,
// arrangement and whether it came from the cache.
func printStats(cards int, arrangement string, cached bool) {
	fmt.Println(statsLine(cards, arrangement, cached))
}

func statsLine(cards int, arrangement string, cached bool) string {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d cards", cards))}
	if arrangement != "" {
		parts = append(parts, StyleDim.Render(arrangement))
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

// =============================================================================
// Cards & Decks
// =============================================================================

// cardSwatch renders a two-cell block in the card's fill color. Cards
// without a color get a dim placeholder.
func cardSwatch(color string) string {
	if color == "" {
		return StyleDim.Render("··")
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

// cardLine formats one card of a deck: index, pin marker, swatch and title.
func cardLine(i int, c deck.Card) string {
	pin := " "
	if c.Pinned {
		pin = StyleWarning.Render(iconPin)
	}
	return fmt.Sprintf("%s %s %s %s", StyleNumber.Render(fmt.Sprintf("%3d", i)), pin, cardSwatch(c.Color), c.Title)
}

// deckLine formats a deck for listings.
func deckLine(d *deck.Deck) string {
	pinned := 0
	for _, c := range d.Cards {
		if c.Pinned {
			pinned++
		}
	}
	info := fmt.Sprintf("(%d cards", d.Count())
	if pinned > 0 {
		info += fmt.Sprintf(", %d pinned", pinned)
	}
	info += ")"
	return fmt.Sprintf("%s  %s %s", StyleDim.Render(d.ID), StyleValue.Render(d.Name), StyleDim.Render(info))
}

// printDeck prints a deck header followed by its cards.
func printDeck(d *deck.Deck) {
	fmt.Println(StyleTitle.Render(d.Name))
	printKeyValue("id", d.ID)
	printKeyValue("updated", d.UpdatedAt.Local().Format("Jan 2 15:04"))
	printNewline()
	for i, c := range d.Cards {
		fmt.Println(cardLine(i, c))
	}
}
