package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"phonebook-client/internal/actions"
	"phonebook-client/internal/model"
	"phonebook-client/internal/phonebook"

	tea "github.com/charmbracelet/bubbletea"
)

type stubQuerier struct {
	code    bool
	result  model.Result
	err     error
	addrs   []string
	entries []model.Entry
}

func (s *stubQuerier) seen(addr string) { s.addrs = append(s.addrs, addr) }

func (s *stubQuerier) AddRecord(_ context.Context, addr string, e model.Entry) (bool, error) {
	s.seen(addr)
	s.entries = append(s.entries, e)
	return s.code, s.err
}

func (s *stubQuerier) DeleteRecordByID(_ context.Context, addr string, _ uint64) (bool, error) {
	s.seen(addr)
	return s.code, s.err
}

func (s *stubQuerier) DeleteRecordByNumber(_ context.Context, addr string, _ string) (bool, error) {
	s.seen(addr)
	return s.code, s.err
}

func (s *stubQuerier) FindRecordByID(_ context.Context, addr string, _ uint64) (model.Result, error) {
	s.seen(addr)
	return s.result, s.err
}

func (s *stubQuerier) FindRecordByNumber(_ context.Context, addr string, _ string) (model.Result, error) {
	s.seen(addr)
	return s.result, s.err
}

func (s *stubQuerier) FindRecordsByName(_ context.Context, addr string, _ string) (model.Result, error) {
	s.seen(addr)
	return s.result, s.err
}

func (s *stubQuerier) FindRecordsBySurname(_ context.Context, addr string, _ string) (model.Result, error) {
	s.seen(addr)
	return s.result, s.err
}

func (s *stubQuerier) FindRecordsByPatronymic(_ context.Context, addr string, _ string) (model.Result, error) {
	s.seen(addr)
	return s.result, s.err
}

func (s *stubQuerier) FindRecordsByNote(_ context.Context, addr string, _ string) (model.Result, error) {
	s.seen(addr)
	return s.result, s.err
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func keyType(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func send(m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	mm, cmd := m.Update(msg)
	return mm.(appModel), cmd
}

// settle runs cmd the way the program loop would and feeds any finished
// request back into the model.
func settle(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	var pending []tea.Cmd
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		pending = msg
	case actionDoneMsg:
		m, _ = send(m, msg)
		return m
	}
	for _, c := range pending {
		if c == nil {
			continue
		}
		if done, ok := c().(actionDoneMsg); ok {
			m, _ = send(m, done)
		}
	}
	return m
}

func newTestModel(q *stubQuerier) appModel {
	return newAppModel(Options{Address: "localhost:50051", Client: q})
}

func frontForm(t *testing.T, m appModel) *form {
	t.Helper()
	f, _, ok := m.dialogs.Front()
	if !ok {
		t.Fatalf("expected an open dialog")
	}
	return f.(*form)
}

func TestLauncher_OpenSameCategoryTwiceKeepsOneForm(t *testing.T) {
	m := newTestModel(&stubQuerier{})

	m, _ = send(m, keyRunes("a"))
	if m.focus != focusForm {
		t.Fatalf("expected focus on the form, got %v", m.focus)
	}
	first := frontForm(t, m)

	m, _ = send(m, keyType(tea.KeyCtrlB))
	if m.focus != focusLauncher {
		t.Fatalf("expected launcher focus after ctrl+b")
	}
	if first.focused {
		t.Fatalf("expected form to blur when leaving it open")
	}

	m, _ = send(m, keyRunes("a"))
	if got := m.dialogs.Live(); got != 1 {
		t.Fatalf("expected 1 live form, got %d", got)
	}
	if frontForm(t, m) != first {
		t.Fatalf("expected the existing add form to be reused")
	}
	if !first.focused {
		t.Fatalf("expected the existing form to be refocused")
	}
}

func TestLauncher_EnterOpensSelectedButton(t *testing.T) {
	m := newTestModel(&stubQuerier{})

	m, _ = send(m, keyType(tea.KeyRight))
	m, _ = send(m, keyType(tea.KeyRight))
	m, _ = send(m, keyType(tea.KeyEnter))

	if _, c, ok := m.dialogs.Front(); !ok || c != model.CategoryFind {
		t.Fatalf("expected the find dialog in front, got %v (ok=%v)", c, ok)
	}
}

func TestForm_EscClosesAndReturnsToLauncher(t *testing.T) {
	m := newTestModel(&stubQuerier{})

	m, _ = send(m, keyRunes("d"))
	f := frontForm(t, m)
	m, _ = send(m, keyType(tea.KeyEsc))

	if m.dialogs.Live() != 0 {
		t.Fatalf("expected no live dialogs")
	}
	if !f.destroyed {
		t.Fatalf("expected the closed form to be destroyed")
	}
	if m.focus != focusLauncher {
		t.Fatalf("expected launcher focus, got %v", m.focus)
	}
}

func TestForm_CloseFocusesNextDialog(t *testing.T) {
	m := newTestModel(&stubQuerier{})

	m, _ = send(m, keyRunes("a"))
	add := frontForm(t, m)
	m, _ = send(m, keyType(tea.KeyCtrlB))
	m, _ = send(m, keyRunes("f"))
	m, _ = send(m, keyType(tea.KeyEsc))

	if m.focus != focusForm {
		t.Fatalf("expected focus to stay on a form")
	}
	if frontForm(t, m) != add || !add.focused {
		t.Fatalf("expected the add form to come to the front")
	}
}

func TestDelete_InvalidIDSendsNoRequest(t *testing.T) {
	q := &stubQuerier{code: true}
	m := newTestModel(q)

	m, _ = send(m, keyRunes("d"))
	m, _ = send(m, keyRunes("12a"))
	m, cmd := send(m, keyType(tea.KeyEnter))
	m = settle(t, m, cmd)

	if len(q.addrs) != 0 {
		t.Fatalf("expected no request, got %v", q.addrs)
	}
	if !strings.Contains(m.minibufferText, `"12a" is not a valid record id`) {
		t.Fatalf("unexpected notice %q", m.minibufferText)
	}
	if m.dialogs.Live() != 1 {
		t.Fatalf("a failed action must leave the dialog open")
	}
}

func TestFind_TransportErrorKeepsPreviousRows(t *testing.T) {
	q := &stubQuerier{result: model.Many([]model.Record{
		{ID: 2, Entry: model.Entry{Name: "Alexander"}},
		{ID: 5, Entry: model.Entry{Name: "Alexander"}},
	})}
	m := newTestModel(q)

	m, _ = send(m, keyRunes("f"))
	m, _ = send(m, keyType(tea.KeyTab))
	m, _ = send(m, keyRunes("Alexander"))
	m, cmd := send(m, keyType(tea.KeyEnter))
	if !m.busy {
		t.Fatalf("expected busy while the request is in flight")
	}
	m = settle(t, m, cmd)
	f := frontForm(t, m)
	if got := f.rowCount(); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}

	q.err = &phonebook.TransportError{Op: "FindRecordsByName", Addr: "localhost:50051", Err: errors.New("connection refused")}
	m, cmd = send(m, keyType(tea.KeyEnter))
	m = settle(t, m, cmd)

	if got := f.rowCount(); got != 2 {
		t.Fatalf("transport failure must keep the previous rows, got %d", got)
	}
	if !strings.Contains(m.minibufferText, "server may be unavailable") {
		t.Fatalf("unexpected notice %q", m.minibufferText)
	}
	if m.busy {
		t.Fatalf("expected busy to clear")
	}
}

func TestFind_AbsentClearsRows(t *testing.T) {
	q := &stubQuerier{result: model.One(model.Record{ID: 4})}
	m := newTestModel(q)

	m, _ = send(m, keyRunes("f"))
	m, _ = send(m, keyRunes("4"))
	m, cmd := send(m, keyType(tea.KeyEnter))
	m = settle(t, m, cmd)
	f := frontForm(t, m)
	if f.rowCount() != 1 {
		t.Fatalf("expected 1 row")
	}

	q.result = model.Absent()
	m, cmd = send(m, keyType(tea.KeyEnter))
	m = settle(t, m, cmd)
	if f.rowCount() != 0 {
		t.Fatalf("expected rows to clear on a miss")
	}
	if !strings.Contains(m.minibufferText, `"4"`) {
		t.Fatalf("expected the id echoed back, got %q", m.minibufferText)
	}
}

func TestBusy_IgnoresKeys(t *testing.T) {
	m := newTestModel(&stubQuerier{result: model.Absent()})

	m, _ = send(m, keyRunes("f"))
	m, _ = send(m, keyRunes("1"))
	m, cmd := send(m, keyType(tea.KeyEnter))
	m, _ = send(m, keyType(tea.KeyEsc))
	if m.dialogs.Live() != 1 {
		t.Fatalf("esc while busy must not close the dialog")
	}
	m = settle(t, m, cmd)
	if m.busy {
		t.Fatalf("expected busy to clear")
	}
}

func TestAction_ReadsAddressAtCallTime(t *testing.T) {
	q := &stubQuerier{code: true}
	m := newTestModel(q)

	m, _ = send(m, keyRunes("d"))
	m, _ = send(m, keyType(tea.KeyTab))
	m, _ = send(m, keyRunes("+79743102164"))
	m, cmd := send(m, keyType(tea.KeyEnter))
	m = settle(t, m, cmd)

	m.address.SetValue(" phonebook.internal:6000 ")
	m, cmd = send(m, keyType(tea.KeyEnter))
	m = settle(t, m, cmd)

	want := []string{"localhost:50051", "phonebook.internal:6000"}
	if strings.Join(q.addrs, ",") != strings.Join(want, ",") {
		t.Fatalf("got addresses %v want %v", q.addrs, want)
	}
	if m.minibufferText != "Record deleted." {
		t.Fatalf("unexpected notice %q", m.minibufferText)
	}
}

func TestAdd_CtrlSSubmitsEntry(t *testing.T) {
	q := &stubQuerier{code: false}
	m := newTestModel(q)

	m, _ = send(m, keyRunes("a"))
	for i, v := range []string{"Sergei", "Burkatovsky", "Borisovich", "+79743102164"} {
		m, _ = send(m, keyRunes(v))
		if i < 3 {
			m, _ = send(m, keyType(tea.KeyEnter))
		}
	}
	m, cmd := send(m, keyType(tea.KeyCtrlS))
	m = settle(t, m, cmd)

	if len(q.entries) != 1 {
		t.Fatalf("expected one add request, got %d", len(q.entries))
	}
	want := model.Entry{Name: "Sergei", Surname: "Burkatovsky", Patronymic: "Borisovich", Number: "+79743102164"}
	if q.entries[0] != want {
		t.Fatalf("got %+v want %+v", q.entries[0], want)
	}
	if m.minibufferText != "A record with this phone number already exists." {
		t.Fatalf("unexpected notice %q", m.minibufferText)
	}
	if m.minibufferLevel != actions.LevelWarning {
		t.Fatalf("expected a warning, got %v", m.minibufferLevel)
	}
}

func TestFinishAction_IgnoresReplacedForm(t *testing.T) {
	q := &stubQuerier{result: model.One(model.Record{ID: 9})}
	m := newTestModel(q)

	m, _ = send(m, keyRunes("f"))
	old := frontForm(t, m)
	m, _ = send(m, keyRunes("9"))
	m, cmd := send(m, keyType(tea.KeyEnter))

	m.dialogs.Close(model.CategoryFind, old)
	m.dialogs.Open(model.CategoryFind)
	fresh := frontForm(t, m)

	m = settle(t, m, cmd)
	if fresh.rowCount() != 0 || old.rowCount() != 0 {
		t.Fatalf("a result for a closed form must not reach any table")
	}
}

func TestMinibuffer_ClearsOnlyLatestNotice(t *testing.T) {
	m := newTestModel(&stubQuerier{})

	(&m).showMinibuffer(actions.Notice{Text: "first"})
	stale := m.minibufferSeq
	(&m).showMinibuffer(actions.Notice{Text: "second"})

	m, _ = send(m, minibufferClearMsg{seq: stale})
	if m.minibufferText != "second" {
		t.Fatalf("stale clear must not hide the newer notice")
	}
	m, _ = send(m, minibufferClearMsg{seq: m.minibufferSeq})
	if m.minibufferText != "" {
		t.Fatalf("expected notice to clear")
	}
}

func TestHelp_ToggleAndRender(t *testing.T) {
	m := newTestModel(&stubQuerier{})

	m, _ = send(m, keyRunes("?"))
	if !m.showHelp {
		t.Fatalf("expected help to show")
	}
	if v := m.View(); !strings.Contains(v, "Launcher") {
		t.Fatalf("expected help content, got %q", v)
	}
	m, _ = send(m, keyRunes("x"))
	if m.showHelp {
		t.Fatalf("expected any key to close help")
	}
	if v := m.View(); !strings.Contains(v, "Server address:") {
		t.Fatalf("expected main view, got %q", v)
	}
}
