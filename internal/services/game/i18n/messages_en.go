package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, StatusPlayingKey, "Status: Playing")
	message.SetString(lang, StatusWonKey, "You won!")
	message.SetString(lang, StatusLostKey, "You lost!")
	_ = message.Set(lang, MinesLeftKey, plural.Selectf(1, "%d",
		"=1", "%d Mine Left",
		"other", "%d Mines Left",
	))
}
