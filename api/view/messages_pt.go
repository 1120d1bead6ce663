package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Lang is the console's display language.
var Lang = language.BrazilianPortuguese

func init() {
	lang := Lang

	// Shell chrome
	message.SetString(lang, "shell.brand", "GAC")
	message.SetString(lang, "shell.subtitle", "Gestão de Ativos")
	message.SetString(lang, "shell.navigation", "Navegação")
	message.SetString(lang, "shell.notifications", "Notificações")
	message.SetString(lang, "shell.pending_region", "%d OS Pendentes")
	message.SetString(lang, "shell.pending_badge", "%d OS")
	message.SetString(lang, "shell.open_menu", "Abrir menu")
	message.SetString(lang, "shell.close_menu", "Fechar menu")

	// Pages
	message.SetString(lang, "title.page", "%s | GAC - Gestão de Ativos")
	message.SetString(lang, "page.placeholder", "Conteúdo de %s")
}

// Localizer formats message keys for the current language.
type Localizer interface {
	Sprintf(key message.Reference, a ...any) string
}

// Printer returns the console localizer.
func Printer() *message.Printer {
	return message.NewPrinter(Lang)
}
