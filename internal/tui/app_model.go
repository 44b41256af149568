package tui

import (
	"context"
	"strings"
	"time"

	"phonebook-client/internal/actions"
	"phonebook-client/internal/config"
	"phonebook-client/internal/dialog"
	"phonebook-client/internal/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const minibufferAutoClearAfter = 6 * time.Second

type focusArea int

const (
	focusLauncher focusArea = iota
	focusAddress
	focusForm
)

type launcherButton struct {
	label    string
	category model.Category
	quit     bool
}

var launcherButtons = []launcherButton{
	{label: "Add", category: model.CategoryAdd},
	{label: "Delete", category: model.CategoryDelete},
	{label: "Find", category: model.CategoryFind},
	{label: "Quit", quit: true},
}

// actionDoneMsg carries a finished request back into the update loop.
type actionDoneMsg struct {
	form    *form
	action  action
	outcome actions.Outcome
}

type minibufferClearMsg struct{ seq int }

type appModel struct {
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	address  textinput.Model
	handlers actions.Handlers
	dialogs  *dialog.Manager
	logger   *zap.Logger

	focus       focusArea
	launcherIdx int
	// busy is set while a request is in flight; input other than ctrl+c is
	// ignored until it completes.
	busy     bool
	showHelp bool

	width  int
	height int

	minibufferText  string
	minibufferLevel actions.Level
	minibufferSeq   int
}

func newAppModel(opts Options) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	addr := strings.TrimSpace(opts.Address)
	if addr == "" {
		addr = config.DefaultAddress
	}

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = charLimit
	in.SetValue(addr)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return appModel{
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		address:  in,
		handlers: actions.Handlers{Client: opts.Client, Logger: logger},
		dialogs:  dialog.NewManager(newForm),
		logger:   logger,
	}
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case actionDoneMsg:
		return m.finishAction(msg)
	case minibufferClearMsg:
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
		}
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m.forward(msg)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.String() == "f1" {
		m.showHelp = true
		return m, nil
	}
	switch m.focus {
	case focusAddress:
		return m.updateAddress(msg)
	case focusForm:
		return m.updateForm(msg)
	default:
		return m.updateLauncher(msg)
	}
}

func (m appModel) updateLauncher(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(launcherButtons)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Address):
		return m.focusAddressField()
	case key.Matches(msg, m.keys.Left):
		m.launcherIdx = (m.launcherIdx + n - 1) % n
	case key.Matches(msg, m.keys.Right):
		m.launcherIdx = (m.launcherIdx + 1) % n
	case key.Matches(msg, m.keys.Add):
		return m.openDialog(model.CategoryAdd)
	case key.Matches(msg, m.keys.Delete):
		return m.openDialog(model.CategoryDelete)
	case key.Matches(msg, m.keys.Find):
		return m.openDialog(model.CategoryFind)
	case key.Matches(msg, m.keys.Cycle):
		if _, _, ok := m.dialogs.Cycle(); ok {
			m.focus = focusForm
		}
	case key.Matches(msg, m.keys.Select):
		b := launcherButtons[m.launcherIdx]
		if b.quit {
			return m, tea.Quit
		}
		return m.openDialog(b.category)
	}
	return m, nil
}

func (m appModel) updateAddress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.address.Blur()
		m.focus = focusLauncher
		return m, nil
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	front, c, ok := m.dialogs.Front()
	if !ok {
		m.focus = focusLauncher
		return m, nil
	}
	f := front.(*form)

	switch {
	case key.Matches(msg, m.keys.Close):
		m.dialogs.Close(c, f)
		if _, _, ok := m.dialogs.Front(); !ok {
			m.focus = focusLauncher
		}
		return m, nil
	case key.Matches(msg, m.keys.Launcher):
		f.Blur()
		m.focus = focusLauncher
		return m, nil
	case key.Matches(msg, m.keys.Cycle):
		m.dialogs.Cycle()
		return m, nil
	case key.Matches(msg, m.keys.Address):
		f.Blur()
		return m.focusAddressField()
	case key.Matches(msg, m.keys.Next):
		f.move(1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		f.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Save) && c == model.CategoryAdd:
		return m.startAction(f, actAdd)
	case key.Matches(msg, m.keys.Submit):
		if a := f.current().action; a != actNext {
			return m.startAction(f, a)
		}
		f.move(1)
		return m, nil
	case key.Matches(msg, m.keys.Scroll):
		return m, f.updateResults(msg)
	}
	return m, f.updateInput(msg)
}

// forward passes non-key messages (cursor blink) to whatever has focus.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusAddress:
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(msg)
		return m, cmd
	case focusForm:
		if front, _, ok := m.dialogs.Front(); ok {
			return m, front.(*form).updateInput(msg)
		}
	}
	return m, nil
}

func (m appModel) focusAddressField() (tea.Model, tea.Cmd) {
	m.focus = focusAddress
	cmd := m.address.Focus()
	return m, cmd
}

func (m appModel) openDialog(c model.Category) (tea.Model, tea.Cmd) {
	_, created := m.dialogs.Open(c)
	m.focus = focusForm
	m.logger.Debug("dialog opened", zap.Stringer("category", c), zap.Bool("created", created))
	return m, textinput.Blink
}

// startAction issues the request for a on f. The server address is read
// from the address field now, not when the model was built.
func (m appModel) startAction(f *form, a action) (tea.Model, tea.Cmd) {
	addr := strings.TrimSpace(m.address.Value())
	h := m.handlers
	value := f.current().input.Value()
	var entry model.Entry
	if a == actAdd {
		entry = f.entry()
	}

	m.busy = true
	run := func() tea.Msg {
		ctx := context.Background()
		var out actions.Outcome
		switch a {
		case actAdd:
			out = h.Add(ctx, addr, entry)
		case actDeleteByID:
			out = h.DeleteByID(ctx, addr, value)
		case actDeleteByNumber:
			out = h.DeleteByNumber(ctx, addr, value)
		case actFindByID:
			out = h.FindByID(ctx, addr, value)
		case actFindByNumber:
			out = h.FindByNumber(ctx, addr, value)
		case actFindByName:
			out = h.FindByName(ctx, addr, value)
		case actFindBySurname:
			out = h.FindBySurname(ctx, addr, value)
		case actFindByPatronymic:
			out = h.FindByPatronymic(ctx, addr, value)
		case actFindByNote:
			out = h.FindByNote(ctx, addr, value)
		}
		return actionDoneMsg{form: f, action: a, outcome: out}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m appModel) finishAction(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if t := msg.outcome.Table; t != nil {
		// The form may have been replaced since the request started.
		if cur, ok := m.dialogs.Get(msg.form.category); ok && cur == dialog.Form(msg.form) {
			msg.form.setRows(t.Rows)
		}
	}
	m.logger.Debug("action finished",
		zap.Stringer("category", msg.form.category),
		zap.Stringer("level", msg.outcome.Notice.Level),
		zap.String("notice", msg.outcome.Notice.Text))
	return m, m.showMinibuffer(msg.outcome.Notice)
}

func (m *appModel) showMinibuffer(n actions.Notice) tea.Cmd {
	m.minibufferSeq++
	m.minibufferText = n.Text
	m.minibufferLevel = n.Level
	seq := m.minibufferSeq
	return tea.Tick(minibufferAutoClearAfter, func(time.Time) tea.Msg {
		return minibufferClearMsg{seq: seq}
	})
}

func (m appModel) contentWidth() int {
	w := m.width
	if w <= 0 {
		w = 100
	}
	if w > 110 {
		w = 110
	}
	if w < 60 {
		w = 60
	}
	return w
}

func (m appModel) View() string {
	w := m.contentWidth()
	if m.showHelp {
		return renderMarkdown(helpMarkdown(m.keys), w) + "\n\n" + styleMuted().Render("press any key to close")
	}

	var b strings.Builder
	b.WriteString(styleTitle().Render("Phone book"))
	b.WriteString("\n\n")

	label := labelCell("Server address:", labelWidth)
	if m.focus == focusAddress {
		label = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label)
	}
	b.WriteString(label + renderInputLine(w-labelWidth-2, m.address.View()))
	b.WriteString("\n\n")

	buttons := make([]string, 0, len(launcherButtons))
	for i, lb := range launcherButtons {
		text := lb.label
		if !lb.quit {
			if _, ok := m.dialogs.Get(lb.category); ok {
				text += " •"
			}
		}
		buttons = append(buttons, styleButton(m.focus == focusLauncher && i == m.launcherIdx).Render(text))
	}
	b.WriteString(strings.Join(buttons, " "))
	b.WriteString("\n\n")

	if front, _, ok := m.dialogs.Front(); ok {
		b.WriteString(front.(*form).view(w))
		b.WriteString("\n")
	}

	b.WriteString(m.minibufferView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.helpKeys()))
	return b.String()
}

func (m appModel) minibufferView() string {
	if m.busy {
		return m.spinner.View() + " Sending request…"
	}
	if m.minibufferText == "" {
		return ""
	}
	var c lipgloss.TerminalColor = colorInfo
	switch m.minibufferLevel {
	case actions.LevelWarning:
		c = colorWarning
	case actions.LevelError:
		c = colorError
	}
	return lipgloss.NewStyle().Foreground(c).Render(m.minibufferText)
}
