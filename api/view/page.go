package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Placeholder stands in for page content the console does not render yet.
func Placeholder(loc Localizer, title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="page-placeholder"><h1>`+
			templ.EscapeString(title)+`</h1><p>`+
			templ.EscapeString(loc.Sprintf("page.placeholder", title))+`</p></section>`)
		return err
	})
}

// Document wraps body in the HTML document with the page title.
func Document(loc Localizer, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(loc.Sprintf("title.page", title))+`</title></head><body>`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
