package dialog

import (
	"phonebook-client/internal/model"
)

// Form is a live dialog instance. Forms are compared by identity, so
// implementations should be pointer types.
type Form interface {
	// Focus brings the form to the foreground.
	Focus()
	// Blur is called when another form takes the foreground.
	Blur()
	// Destroy releases the form. It is called exactly once, by Close.
	Destroy()
}

// Factory builds a new form for a category.
type Factory func(model.Category) Form

// Manager tracks at most one live form per dialog category.
//
// A Manager is not safe for concurrent use; it belongs to the UI event loop.
type Manager struct {
	newForm Factory
	slots   map[model.Category]Form
	// order lists live categories from back to front.
	order []model.Category
}

func NewManager(newForm Factory) *Manager {
	return &Manager{
		newForm: newForm,
		slots:   map[model.Category]Form{},
	}
}

// Open brings the category's form to the foreground, building it first if
// the slot is empty. created reports whether a new form was built.
func (m *Manager) Open(c model.Category) (f Form, created bool) {
	if f, ok := m.slots[c]; ok {
		m.raise(c)
		return f, false
	}
	f = m.newForm(c)
	m.slots[c] = f
	m.raise(c)
	return f, true
}

// Close destroys f and empties its slot. Only the form currently held by
// the slot can close it; a stale form or an empty slot is a no-op.
func (m *Manager) Close(c model.Category, f Form) bool {
	cur, ok := m.slots[c]
	if !ok || f == nil || cur != f {
		return false
	}
	delete(m.slots, c)
	m.removeFromOrder(c)
	cur.Destroy()
	if next, _, ok := m.Front(); ok {
		next.Focus()
	}
	return true
}

func (m *Manager) Get(c model.Category) (Form, bool) {
	f, ok := m.slots[c]
	return f, ok
}

// Front returns the foreground form.
func (m *Manager) Front() (Form, model.Category, bool) {
	if len(m.order) == 0 {
		return nil, 0, false
	}
	c := m.order[len(m.order)-1]
	return m.slots[c], c, true
}

// Live returns the number of open forms.
func (m *Manager) Live() int { return len(m.slots) }

// Cycle brings the backmost live form to the foreground.
func (m *Manager) Cycle() (Form, model.Category, bool) {
	if len(m.order) == 0 {
		return nil, 0, false
	}
	m.raise(m.order[0])
	return m.Front()
}

func (m *Manager) raise(c model.Category) {
	if prev, pc, ok := m.Front(); ok && pc != c {
		prev.Blur()
	}
	m.removeFromOrder(c)
	m.order = append(m.order, c)
	m.slots[c].Focus()
}

func (m *Manager) removeFromOrder(c model.Category) {
	for i, x := range m.order {
		if x == c {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
