package cli

import (
	"fmt"
	"time"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/ui"
)

const maxText = 80

// renderList builds the `ls` panel: counts header, progress, items, tip.
func renderList(s *store.Store, f model.Filter, group bool, now time.Time) string {
	t := ui.Current()
	c := s.Counts()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), c.Completed,
		t.Pending.Render(t.SymPending), c.Pending,
		t.Accent.Render("Total"), c.Total,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(c.Completed, c.Total, 28)))
	lines = append(lines, "")

	items := s.Items(f)
	switch {
	case len(items) == 0:
		lines = append(lines, t.Muted.Render(emptyMessage(f)))
	case group:
		lines = append(lines, groupLines(items, now)...)
	default:
		lines = append(lines, flatLines(items, now)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `tasks add \"Buy milk\"`"))
	return ui.Panel(lines)
}

func emptyMessage(f model.Filter) string {
	switch f {
	case model.Completed:
		return "No completed tasks yet!"
	case model.Pending:
		return "All tasks completed!"
	default:
		return "No tasks yet. Add your first task!"
	}
}

func itemLine(it model.Item, now time.Time) string {
	t := ui.Current()
	box, text := t.Muted.Render(t.BoxUnchecked), truncate(it.Text, maxText)
	if it.Completed {
		box, text = t.Success.Render(t.BoxChecked), t.Done.Render(text)
	}
	return fmt.Sprintf("%s %s %s  %s",
		t.Muted.Render(fmt.Sprintf("#%d", it.ID)), box, text,
		t.Muted.Render(ui.Ago(it.CreatedAt, now)))
}

func flatLines(items []model.Item, now time.Time) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, itemLine(it, now))
	}
	return out
}

func groupLines(items []model.Item, now time.Time) []string {
	var pend, done []model.Item
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend, now)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done, now)...)
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
