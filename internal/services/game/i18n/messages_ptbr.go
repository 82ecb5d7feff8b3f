package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	message.SetString(lang, StatusPlayingKey, "Status: Jogando")
	message.SetString(lang, StatusWonKey, "Você venceu!")
	message.SetString(lang, StatusLostKey, "Você perdeu!")
	_ = message.Set(lang, MinesLeftKey, plural.Selectf(1, "%d",
		"=1", "%d Mina Restante",
		"other", "%d Minas Restantes",
	))
}
