package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

func helpMarkdown(k keyMap) string {
	row := func(b key.Binding) string {
		h := b.Help()
		return fmt.Sprintf("| `%s` | %s |\n", h.Key, h.Desc)
	}
	section := func(title string, bs ...key.Binding) string {
		var s strings.Builder
		s.WriteString("## " + title + "\n\n| Key | Action |\n|---|---|\n")
		for _, b := range bs {
			s.WriteString(row(b))
		}
		return s.String() + "\n"
	}

	var b strings.Builder
	b.WriteString("# Phone book\n\n")
	b.WriteString("Every request goes to the address in the *Server address* field at the moment it is sent. ")
	b.WriteString("Each dialog can be open only once; choosing it again brings it to the front.\n\n")
	b.WriteString(section("Launcher", k.Left, k.Select, k.Add, k.Delete, k.Find, k.Cycle, k.Address, k.Quit))
	b.WriteString(section("Dialogs", k.Next, k.Prev, k.Submit, k.Save, k.Scroll, k.Close, k.Launcher, k.Cycle))
	b.WriteString("Press `ctrl+c` at any time to quit.\n")
	return b.String()
}
