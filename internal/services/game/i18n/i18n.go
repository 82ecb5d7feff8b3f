// Package i18n localizes the game status line returned with every board.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/minefield/internal/services/game/domain/board"
)

var supportedTags = []language.Tag{
	language.English,
	language.MustParse("pt-BR"),
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag maps a locale or Accept-Language value to a supported tag.
func ResolveTag(value string) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default()
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, index, confidence := tagMatcher.Match(tags...)
	if confidence == language.No {
		return Default()
	}
	return supportedTags[index]
}

// StatusLine renders the phase label and remaining flag count, e.g.
// "Status: Playing · 12 Mines Left". Finished games show only the label.
func StatusLine(p *message.Printer, phase board.Phase, remainingFlags int) string {
	if phase.Terminal() {
		return PhaseLabel(p, phase)
	}
	return PhaseLabel(p, phase) + " · " + p.Sprintf(MinesLeftKey, remainingFlags)
}

// PhaseLabel renders the localized label for phase.
func PhaseLabel(p *message.Printer, phase board.Phase) string {
	switch phase {
	case board.PhasePlaying:
		return p.Sprintf(StatusPlayingKey)
	case board.PhaseWon:
		return p.Sprintf(StatusWonKey)
	case board.PhaseLost:
		return p.Sprintf(StatusLostKey)
	default:
		return phase.String()
	}
}
