// Package routes builds console page URLs from page names.
package routes

import "strings"

// Builder turns a page name into its route.
type Builder func(pageName string) string

// Build returns "/" followed by the page name with spaces replaced by dashes.
// Case is preserved, so "OrdensServico" maps to "/OrdensServico".
func Build(pageName string) string {
	return "/" + strings.ReplaceAll(strings.TrimSpace(pageName), " ", "-")
}

// PageName reverses Build for a route produced by it.
func PageName(route string) string {
	return strings.ReplaceAll(strings.TrimPrefix(route, "/"), "-", " ")
}
