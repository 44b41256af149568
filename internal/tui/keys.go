package tui

import (
	"phonebook-client/internal/model"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Address key.Binding

	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Add    key.Binding
	Delete key.Binding
	Find   key.Binding

	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Save     key.Binding
	Close    key.Binding
	Launcher key.Binding
	Cycle    key.Binding
	Scroll   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?/f1", "help")),
		Address: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "server address")),

		Left:   key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/→", "choose")),
		Right:  key.NewBinding(key.WithKeys("right", "l", "tab")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Find:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "find")),

		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "prev field")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "add record")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close dialog")),
		Launcher: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "launcher")),
		Cycle:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next dialog")),
		Scroll:   key.NewBinding(key.WithKeys("pgup", "pgdown", "home", "end"), key.WithHelp("pgup/pgdn", "scroll results")),
	}
}

// contextKeys is the help.KeyMap for whatever currently has focus.
type contextKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k contextKeys) ShortHelp() []key.Binding  { return k.short }
func (k contextKeys) FullHelp() [][]key.Binding { return k.full }

func (m appModel) helpKeys() contextKeys {
	k := m.keys
	switch m.focus {
	case focusAddress:
		return contextKeys{short: []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/esc", "done")),
		}}
	case focusForm:
		short := []key.Binding{k.Submit, k.Next, k.Close, k.Launcher, k.Cycle}
		if _, c, ok := m.dialogs.Front(); ok {
			switch c {
			case model.CategoryAdd:
				short = append(short, k.Save)
			case model.CategoryFind:
				short = append(short, k.Scroll)
			}
		}
		return contextKeys{short: short}
	default:
		return contextKeys{short: []key.Binding{k.Left, k.Select, k.Add, k.Delete, k.Find, k.Address, k.Help, k.Quit}}
	}
}
