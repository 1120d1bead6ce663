package view

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/usecase/shell"
)

const (
	// SidebarParam is the query parameter of the mobile menu trigger.
	SidebarParam = "sidebar"
	SidebarOpen  = "open"
)

// Layout renders the console shell around children. currentPageName is accepted for
// the router's convenience and does not affect the output; highlighting follows
// state.ActiveRoute only.
func Layout(state shell.State, currentPageName string, children templ.Component) templ.Component {
	return LayoutWith(Printer(), state, children)
}

// LayoutWith renders Layout with an explicit localizer.
func LayoutWith(loc Localizer, state shell.State, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<div class="shell" data-collapsed="`)
		b.WriteString(boolAttr(state.Collapsed))
		b.WriteString(`">`)

		writeSidebar(&b, loc, state)

		b.WriteString(`<div class="shell-body">`)
		writeMobileHeader(&b, loc, state)
		b.WriteString(`<main class="shell-main">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if children != nil {
			if err := children.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></div></div>`)
		return err
	})
}

func writeSidebar(b *strings.Builder, loc Localizer, state shell.State) {
	b.WriteString(`<aside class="sidebar">`)

	b.WriteString(`<div class="sidebar-brand"><span class="brand-mark">`)
	writeIcon(b, domain.IconPackage)
	b.WriteString(`</span><div><h2 class="brand-title">`)
	b.WriteString(templ.EscapeString(loc.Sprintf("shell.brand")))
	b.WriteString(`</h2><p class="brand-subtitle">`)
	b.WriteString(templ.EscapeString(loc.Sprintf("shell.subtitle")))
	b.WriteString(`</p></div></div>`)

	b.WriteString(`<nav class="sidebar-nav"><p class="group-label">`)
	b.WriteString(templ.EscapeString(loc.Sprintf("shell.navigation")))
	b.WriteString(`</p><ul>`)
	for _, item := range state.Menu {
		writeMenuItem(b, item)
	}
	b.WriteString(`</ul></nav>`)

	if state.ShowNotifications() {
		b.WriteString(`<section class="sidebar-notifications"><p class="group-label">`)
		b.WriteString(templ.EscapeString(loc.Sprintf("shell.notifications")))
		b.WriteString(`</p><div class="pending-alert">`)
		writeIcon(b, domain.IconBell)
		b.WriteString(`<span>`)
		b.WriteString(templ.EscapeString(loc.Sprintf("shell.pending_region", state.PendingCount)))
		b.WriteString(`</span></div></section>`)
	}

	b.WriteString(`<footer class="sidebar-footer"><span class="avatar">`)
	writeIcon(b, domain.IconUser)
	b.WriteString(`</span><div class="user"><p class="user-name">`)
	b.WriteString(templ.EscapeString(state.User.FullName))
	b.WriteString(`</p><p class="user-email">`)
	b.WriteString(templ.EscapeString(state.User.Email))
	b.WriteString(`</p></div></footer>`)

	b.WriteString(`</aside>`)
}

func writeMenuItem(b *strings.Builder, item shell.MenuItem) {
	b.WriteString(`<li data-title="`)
	b.WriteString(templ.EscapeString(item.Entry.Title))
	b.WriteString(`"><a href="`)
	b.WriteString(templ.EscapeString(item.Entry.Route))
	b.WriteString(`" class="nav-item`)
	if item.Active {
		b.WriteString(` active" aria-current="page`)
	}
	b.WriteString(`">`)
	writeIcon(b, item.Entry.Icon)
	b.WriteString(`<span>`)
	b.WriteString(templ.EscapeString(item.Entry.Title))
	b.WriteString(`</span></a></li>`)
}

func writeMobileHeader(b *strings.Builder, loc Localizer, state shell.State) {
	b.WriteString(`<header class="mobile-header"><a class="sidebar-trigger" href="`)
	if state.Collapsed {
		b.WriteString(`?` + SidebarParam + `=` + SidebarOpen)
		b.WriteString(`" aria-label="`)
		b.WriteString(templ.EscapeString(loc.Sprintf("shell.open_menu")))
	} else {
		b.WriteString(templ.EscapeString(state.ActiveRoute))
		b.WriteString(`" aria-label="`)
		b.WriteString(templ.EscapeString(loc.Sprintf("shell.close_menu")))
	}
	b.WriteString(`" aria-expanded="`)
	b.WriteString(boolAttr(!state.Collapsed))
	b.WriteString(`">`)
	writeIcon(b, domain.IconMenu)
	b.WriteString(`</a><h1 class="mobile-brand">`)
	b.WriteString(templ.EscapeString(loc.Sprintf("shell.brand")))
	b.WriteString(`</h1>`)
	if state.ShowNotifications() {
		b.WriteString(`<span class="pending-badge">`)
		b.WriteString(templ.EscapeString(loc.Sprintf("shell.pending_badge", state.PendingCount)))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</header>`)
}

func writeIcon(b *strings.Builder, icon domain.Icon) {
	b.WriteString(`<svg class="icon" aria-hidden="true"><use href="#lucide-`)
	b.WriteString(templ.EscapeString(string(icon)))
	b.WriteString(`"></use></svg>`)
}

func boolAttr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
