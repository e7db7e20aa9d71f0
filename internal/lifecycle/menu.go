package lifecycle

import "strings"

// AppName is the tray tooltip and the label of the show item
const AppName = "Subly"

// Menu item identifiers delivered back by the tray
const (
	MenuIDShow = "show"
	MenuIDQuit = "quit"
)

// MenuItem is one entry of the tray menu; separators carry no ID
type MenuItem struct {
	ID        string `json:"id,omitempty"`
	Label     string `json:"label,omitempty"`
	Separator bool   `json:"separator,omitempty"`
}

// Menu is the tray icon definition
type Menu struct {
	Tooltip string     `json:"tooltip"`
	Items   []MenuItem `json:"items"`
}

// TrayMenu returns the tray definition: open, a divider, quit
func TrayMenu() Menu {
	return Menu{
		Tooltip: AppName,
		Items: []MenuItem{
			{ID: MenuIDShow, Label: "Open " + AppName},
			{Separator: true},
			{ID: MenuIDQuit, Label: "Quit"},
		},
	}
}

// EventForMenuItem maps a clicked menu item to its event
func EventForMenuItem(id string) (Event, bool) {
	switch id {
	case MenuIDShow:
		return EventMenuShow, true
	case MenuIDQuit:
		return EventMenuQuit, true
	default:
		return "", false
	}
}

// Render prints the menu one item per line
func (m Menu) Render() string {
	var b strings.Builder
	b.WriteString("tooltip: " + m.Tooltip + "\n")
	for _, item := range m.Items {
		if item.Separator {
			b.WriteString("---\n")
			continue
		}
		b.WriteString(item.ID + "\t" + item.Label + "\n")
	}
	return b.String()
}
