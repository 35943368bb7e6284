package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item model.Item
	ago  string
}

func (i listItem) FilterValue() string { return i.item.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	box, text := t.Muted.Render(t.BoxUnchecked), it.item.Text
	if it.item.Completed {
		box, text = t.Success.Render(t.BoxChecked), t.Done.Render(text)
	}
	line := fmt.Sprintf("%s %s  %s", box, text, t.Muted.Render(it.ago))
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

type keyMap struct {
	Add, Toggle, Delete, Filter key.Binding
}

var keys = keyMap{
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Filter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "all/pending/completed")),
}

// Model is the interactive list. Every action goes straight to the store,
// which persists it before the next key is handled.
type Model struct {
	store  *store.Store
	now    func() time.Time
	list   list.Model
	filter model.Filter
	width  int
	height int

	// Inline add
	adding bool
	ti     textinput.Model
	addErr string

	// Delete confirmation
	confirming bool
	pending    model.Item

	status string
}

// New builds the model over s. now feeds the relative timestamps.
func New(s *store.Store, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	t := ui.Current()

	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	extra := func() []key.Binding { return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Filter} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task..."
	ti.CharLimit = 200

	m := Model{
		store:  s,
		now:    now,
		list:   l,
		ti:     ti,
		width:  80,
		height: 24,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(s *store.Store, now func() time.Time) error {
	_, err := tea.NewProgram(New(s, now), tea.WithAltScreen()).Run()
	return err
}

// Filter reports the active completion filter.
func (m Model) Filter() model.Filter { return m.filter }

// refresh reloads list rows and the header from the store.
func (m *Model) refresh() {
	t := ui.Current()
	now := m.now()
	var rows []list.Item
	for it := range m.store.List(m.filter) {
		rows = append(rows, listItem{item: it, ago: ui.Ago(it.CreatedAt, now)})
	}
	m.list.SetItems(rows)

	c := m.store.Counts()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d   [%s]",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), c.Completed,
		t.Pending.Render(t.SymPending), c.Pending,
		t.Accent.Render("Total"), c.Total,
		m.filter,
	)
}

func (m Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}
	if m.confirming {
		if k, ok := msg.(tea.KeyMsg); ok {
			m.confirming = false
			if strings.ToLower(k.String()) == "y" {
				if err := m.store.Delete(m.pending.ID); err != nil {
					m.status = err.Error()
				} else {
					m.status = fmt.Sprintf("removed #%d", m.pending.ID)
				}
				m.refresh()
			} else {
				m.status = "cancelled"
			}
		}
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case k.String() == "q" || (k.String() == "esc" && m.list.FilterState() == list.Unfiltered):
			return m, tea.Quit
		case key.Matches(k, keys.Toggle):
			if it, ok := m.selected(); ok {
				if _, err := m.store.Toggle(it.ID); err != nil {
					m.status = err.Error()
				}
				m.refresh()
			}
			return m, nil
		case key.Matches(k, keys.Delete):
			if it, ok := m.selected(); ok {
				m.confirming = true
				m.pending = it
			}
			return m, nil
		case key.Matches(k, keys.Add):
			m.adding = true
			m.addErr = ""
			m.ti.SetValue("")
			m.resize()
			return m, m.ti.Focus()
		case key.Matches(k, keys.Filter):
			m.filter = m.filter.Next()
			m.list.ResetFilter()
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			it, err := m.store.Create(m.ti.Value())
			if errors.Is(err, store.ErrEmptyInput) {
				m.addErr = "Please enter a task!"
				return m, nil
			}
			m.status = fmt.Sprintf("added #%d", it.ID)
			m.stopAdding()
			m.refresh()
			m.list.Select(0)
			return m, nil
		case "esc":
			m.stopAdding()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) stopAdding() {
	m.adding = false
	m.addErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *Model) resize() {
	h := m.height - 4
	if m.adding || m.confirming {
		h -= 2
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()
	if len(m.list.Items()) == 0 {
		content += "\n" + t.Muted.Render(emptyMessage(m.filter))
	}

	switch {
	case m.adding:
		title := "Add new task"
		if m.addErr != "" {
			title += "  " + t.Error.Render(m.addErr)
		}
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	case m.confirming:
		content += "\n" + t.Error.Render(fmt.Sprintf("Delete %q? [y/N]", m.pending.Text))
	case m.status != "":
		content += "\n" + t.Muted.Render(m.status)
	}
	return ui.Panel([]string{content})
}

func emptyMessage(f model.Filter) string {
	switch f {
	case model.Completed:
		return "No completed tasks yet!"
	case model.Pending:
		return "All tasks completed!"
	default:
		return "No tasks yet. Press a to add your first task!"
	}
}
