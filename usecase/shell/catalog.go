package shell

import (
	"fmt"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/pkg/routes"
)

// Catalog is the fixed, ordered sidebar menu. The zero value is an empty catalog.
type Catalog struct {
	entries []domain.NavigationEntry
}

// NewCatalog validates entries and freezes their order. Titles key the rendered menu
// and routes drive highlighting, so both must be unique.
func NewCatalog(entries ...domain.NavigationEntry) (Catalog, error) {
	titles := make(map[string]struct{}, len(entries))
	paths := make(map[string]struct{}, len(entries))
	frozen := make([]domain.NavigationEntry, 0, len(entries))
	for i, entry := range entries {
		if entry.Title == "" || entry.Route == "" {
			return Catalog{}, fmt.Errorf("navigation entry %d: title and route are required", i)
		}
		if _, dup := titles[entry.Title]; dup {
			return Catalog{}, fmt.Errorf("navigation entry %q: duplicate title", entry.Title)
		}
		if _, dup := paths[entry.Route]; dup {
			return Catalog{}, fmt.Errorf("navigation entry %q: duplicate route %q", entry.Title, entry.Route)
		}
		titles[entry.Title] = struct{}{}
		paths[entry.Route] = struct{}{}
		frozen = append(frozen, entry)
	}
	return Catalog{entries: frozen}, nil
}

// MustCatalog is NewCatalog for process start-up tables.
func MustCatalog(entries ...domain.NavigationEntry) Catalog {
	c, err := NewCatalog(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog is the console menu in display order.
func DefaultCatalog(build routes.Builder) Catalog {
	if build == nil {
		build = routes.Build
	}
	return MustCatalog(
		domain.NavigationEntry{Title: "Painel de Controle", Route: build("Dashboard"), Icon: domain.IconLayoutDashboard},
		domain.NavigationEntry{Title: "Ativos", Route: build("Ativos"), Icon: domain.IconPackage},
		domain.NavigationEntry{Title: "Ordens de Serviço", Route: build("OrdensServico"), Icon: domain.IconWrench},
		domain.NavigationEntry{Title: "Planejamento Sistemático", Route: build("Planejamento"), Icon: domain.IconCalendarCheck},
		domain.NavigationEntry{Title: "Plano Sistemático 2026", Route: build("PlanoSistematico2026"), Icon: domain.IconCalendar},
		domain.NavigationEntry{Title: "Inventário Rápido", Route: build("Inventario"), Icon: domain.IconQrCode},
		domain.NavigationEntry{Title: "Relatórios Financeiros", Route: build("RelatoriosFinanceiros"), Icon: domain.IconDollarSign},
		domain.NavigationEntry{Title: "Desempenho Técnicos", Route: build("DesempenhoTecnicos"), Icon: domain.IconUsers},
		domain.NavigationEntry{Title: "Técnico Mobile", Route: build("TecnicoMobile"), Icon: domain.IconSmartphone},
	)
}

// Entries returns a copy of the entries in display order.
func (c Catalog) Entries() []domain.NavigationEntry {
	out := make([]domain.NavigationEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c Catalog) Len() int {
	return len(c.entries)
}

func (c Catalog) At(i int) domain.NavigationEntry {
	return c.entries[i]
}

// Lookup finds the entry whose route equals path exactly.
func (c Catalog) Lookup(path string) (domain.NavigationEntry, bool) {
	for _, entry := range c.entries {
		if entry.IsActive(path) {
			return entry, true
		}
	}
	return domain.NavigationEntry{}, false
}
