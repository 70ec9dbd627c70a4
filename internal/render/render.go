// Package render prints event lists to a terminal in the light or dark theme.
package render

import (
	"eventdesk/internal/models"
	"eventdesk/internal/view"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	header lipgloss.Style
	title  lipgloss.Style
	meta   lipgloss.Style
	body   lipgloss.Style
	empty  lipgloss.Style
	notice lipgloss.Style
}

func newPalette(dark bool) palette {
	if dark {
		return palette{
			header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0E0FF")),
			title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8AB4F8")),
			meta:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9AA0A6")),
			body:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E8EAED")),
			empty:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9AA0A6")),
			notice: lipgloss.NewStyle().Foreground(lipgloss.Color("#81C995")),
		}
	}
	return palette{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1A237E")),
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1967D2")),
		meta:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5F6368")),
		body:   lipgloss.NewStyle().Foreground(lipgloss.Color("#202124")),
		empty:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#5F6368")),
		notice: lipgloss.NewStyle().Foreground(lipgloss.Color("#188038")),
	}
}

// Renderer writes styled output to w.
type Renderer struct {
	w      io.Writer
	styles palette
}

func New(w io.Writer, dark bool) *Renderer {
	return &Renderer{w: w, styles: newPalette(dark)}
}

// List prints the header with the total count and last action, then the
// projected events or the matching empty-state line.
func (r *Renderer) List(p view.Projection, lastAction string) {
	header := fmt.Sprintf("Events: %d", p.Total)
	if lastAction != "" {
		header += "  ·  Last action: " + lastAction
	}
	fmt.Fprintln(r.w, r.styles.header.Render(header))

	switch {
	case p.StoreEmpty():
		fmt.Fprintln(r.w, r.styles.empty.Render("No events yet."))
		return
	case p.NoMatches():
		fmt.Fprintln(r.w, r.styles.empty.Render("No events match your search/filter."))
		return
	}

	for _, ev := range p.Events {
		fmt.Fprintln(r.w)
		r.Event(ev)
	}
}

// Event prints a single event card.
func (r *Renderer) Event(ev models.Event) {
	fmt.Fprintln(r.w, r.styles.title.Render(ev.Title))
	fmt.Fprintln(r.w, r.styles.meta.Render("Date: "+ev.Date))
	fmt.Fprintln(r.w, r.styles.meta.Render("Category: "+ev.Category))
	if desc := strings.TrimSpace(ev.Description); desc != "" {
		fmt.Fprintln(r.w, r.styles.body.Render(desc))
	}
	fmt.Fprintln(r.w, r.styles.meta.Render("ID: "+string(ev.ID)))
}

// Notice prints a one-line confirmation.
func (r *Renderer) Notice(format string, args ...any) {
	fmt.Fprintln(r.w, r.styles.notice.Render(fmt.Sprintf(format, args...)))
}
