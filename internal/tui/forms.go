package tui

import (
	"fmt"
	"strconv"
	"strings"

	"phonebook-client/internal/dialog"
	"phonebook-client/internal/model"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// action is what enter does on a form field.
type action int

const (
	actNext action = iota
	actAdd
	actDeleteByID
	actDeleteByNumber
	actFindByID
	actFindByNumber
	actFindByName
	actFindBySurname
	actFindByPatronymic
	actFindByNote
)

func (a action) label() string {
	switch a {
	case actAdd:
		return "Add"
	case actDeleteByID, actDeleteByNumber:
		return "Delete"
	case actNext:
		return ""
	default:
		return "Find"
	}
}

type field struct {
	label  string
	input  textinput.Model
	action action
}

// form is a dialog instance. One type serves all three categories; the
// fields and their actions differ.
type form struct {
	category  model.Category
	title     string
	fields    []field
	cursor    int
	focused   bool
	destroyed bool
	// results is only set on the find form.
	results *table.Model
}

var _ dialog.Form = (*form)(nil)

const (
	labelWidth = 16
	charLimit  = 256
)

func newForm(c model.Category) dialog.Form {
	switch c {
	case model.CategoryAdd:
		return newAddForm()
	case model.CategoryDelete:
		return newDeleteForm()
	case model.CategoryFind:
		return newFindForm()
	default:
		panic(fmt.Sprintf("tui: no form for %v", c))
	}
}

func newField(label, placeholder string, a action) field {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = charLimit
	return field{label: label, input: in, action: a}
}

func newAddForm() *form {
	return &form{
		category: model.CategoryAdd,
		title:    "Add record",
		fields: []field{
			newField("Name:", "", actNext),
			newField("Surname:", "", actNext),
			newField("Patronymic:", "", actNext),
			newField("Phone number:", "+79990000000", actNext),
			newField("Note:", "", actAdd),
		},
	}
}

func newDeleteForm() *form {
	return &form{
		category: model.CategoryDelete,
		title:    "Delete record",
		fields: []field{
			newField("Record id:", "", actDeleteByID),
			newField("Phone number:", "", actDeleteByNumber),
		},
	}
}

func newFindForm() *form {
	cols := []table.Column{
		{Title: "id", Width: 6},
		{Title: "name", Width: 12},
		{Title: "surname", Width: 14},
		{Title: "patronymic", Width: 14},
		{Title: "number", Width: 14},
		{Title: "note", Width: 28},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(8),
		table.WithFocused(true),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.Foreground(colorAccentFg).Background(colorAccent)
	t.SetStyles(st)

	return &form{
		category: model.CategoryFind,
		title:    "Find records",
		fields: []field{
			newField("Record id:", "", actFindByID),
			newField("Name:", "", actFindByName),
			newField("Surname:", "", actFindBySurname),
			newField("Patronymic:", "", actFindByPatronymic),
			newField("Phone number:", "", actFindByNumber),
			newField("Note:", "words to look for", actFindByNote),
		},
		results: &t,
	}
}

func (f *form) Focus() {
	f.focused = true
	for i := range f.fields {
		if i == f.cursor {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
}

func (f *form) Blur() {
	f.focused = false
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
}

func (f *form) Destroy() {
	f.Blur()
	f.destroyed = true
	for i := range f.fields {
		f.fields[i].input.Reset()
	}
	if f.results != nil {
		f.results.SetRows(nil)
	}
}

func (f *form) move(delta int) {
	n := len(f.fields)
	f.fields[f.cursor].input.Blur()
	f.cursor = ((f.cursor+delta)%n + n) % n
	if f.focused {
		f.fields[f.cursor].input.Focus()
	}
}

func (f *form) current() field { return f.fields[f.cursor] }

// entry reads the add form's fields.
func (f *form) entry() model.Entry {
	v := func(i int) string { return f.fields[i].input.Value() }
	return model.Entry{Name: v(0), Surname: v(1), Patronymic: v(2), Number: v(3), Note: v(4)}
}

func (f *form) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.cursor].input, cmd = f.fields[f.cursor].input.Update(msg)
	return cmd
}

func (f *form) updateResults(msg tea.Msg) tea.Cmd {
	if f.results == nil {
		return nil
	}
	var cmd tea.Cmd
	*f.results, cmd = f.results.Update(msg)
	return cmd
}

// setRows clears the results table and fills it with recs.
func (f *form) setRows(recs []model.Record) {
	if f.results == nil {
		return
	}
	rows := make([]table.Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, table.Row{
			strconv.FormatUint(r.ID, 10), r.Name, r.Surname, r.Patronymic, r.Number, r.Note,
		})
	}
	f.results.SetRows(rows)
	f.results.GotoTop()
}

func (f *form) rowCount() int {
	if f.results == nil {
		return 0
	}
	return len(f.results.Rows())
}

func (f *form) view(width int) string {
	inner := width - 4
	if inner < 40 {
		inner = 40
	}
	inputW := inner - labelWidth - 10

	var b strings.Builder
	b.WriteString(styleTitle().Render(f.title))
	b.WriteString("\n\n")
	for i, fl := range f.fields {
		label := labelCell(fl.label, labelWidth)
		if i == f.cursor && f.focused {
			label = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label)
		}
		btn := ""
		if l := fl.action.label(); l != "" {
			btn = " " + styleButton(i == f.cursor && f.focused).Render(l)
		}
		b.WriteString(label + renderInputLine(inputW, fl.input.View()) + btn + "\n")
	}
	if f.results != nil {
		b.WriteString("\n")
		b.WriteString(f.results.View())
		b.WriteString("\n")
		b.WriteString(styleMuted().Render(fmt.Sprintf("%d record(s)", f.rowCount())))
	}
	return styleModal(f.focused).Width(inner).Render(strings.TrimRight(b.String(), "\n"))
}
