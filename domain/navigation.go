package domain

// Icon references a glyph in the console's icon sprite.
type Icon string

const (
	IconLayoutDashboard Icon = "layout-dashboard"
	IconPackage         Icon = "package"
	IconWrench          Icon = "wrench"
	IconCalendarCheck   Icon = "calendar-check"
	IconCalendar        Icon = "calendar"
	IconQrCode          Icon = "qr-code"
	IconDollarSign      Icon = "dollar-sign"
	IconUsers           Icon = "users"
	IconSmartphone      Icon = "smartphone"
	IconBell            Icon = "bell"
	IconUser            Icon = "user"
	IconMenu            Icon = "menu"
)

// NavigationEntry is one item of the console's sidebar menu.
type NavigationEntry struct {
	Title string `json:"title"`
	Route string `json:"route"`
	Icon  Icon   `json:"icon"`
}

// IsActive matches the current path against the entry route. The comparison is exact:
// trailing slashes and letter case are significant.
func (e NavigationEntry) IsActive(currentPath string) bool {
	return e.Route == currentPath
}
