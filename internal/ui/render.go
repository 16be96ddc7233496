// Package ui renders the popup view as plain text.
package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/MrSnakeDoc/timemark/internal/coordinator"
	"github.com/MrSnakeDoc/timemark/internal/domain"
)

const (
	titleWidth = 48
	noteWidth  = 60
)

// Render writes the full popup: status line, media card, capture form and
// recent bookmarks.
func Render(w io.Writer, v coordinator.View) error {
	var b strings.Builder
	writeStatus(&b, v)

	if v.State == coordinator.Capturing {
		b.WriteString("\nAdding bookmark at " + domain.FormatTime(v.Media.CurrentTime) + ". Type a note and press enter, or 'c' to cancel.\n")
		if v.SaveError != "" {
			b.WriteString("  ⚠ " + v.SaveError + "\n")
		}
	} else if v.CanCapture {
		b.WriteString("\n[b] bookmark this moment\n")
	}

	RenderList(&b, v.Bookmarks, v.Total)
	if v.ListError != "" {
		b.WriteString("  ⚠ " + v.ListError + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderList writes a numbered bookmark list. total is the size of the full
// collection; a footer notes hidden entries.
func RenderList(w io.Writer, list []domain.Bookmark, total int) {
	fmt.Fprintf(w, "\nRecent bookmarks (%d)\n", total)
	if len(list) == 0 {
		fmt.Fprintln(w, "  No bookmarks yet")
		return
	}
	for i, bm := range list {
		fmt.Fprintf(w, "  %d. %s %s  %s\n", i+1, bm.Platform.Icon(), bm.TimestampDisplay, truncate(plain(bm.Title), titleWidth))
		for _, line := range strings.Split(bm.Note, "\n") {
			if line = plain(line); line != "" {
				fmt.Fprintf(w, "       %s\n", truncate(line, noteWidth))
			}
		}
	}
	if hidden := total - len(list); hidden > 0 {
		fmt.Fprintf(w, "  … and %d more\n", hidden)
	}
}

// RenderStatus writes the status line and the media card only.
func RenderStatus(w io.Writer, v coordinator.View) error {
	var b strings.Builder
	writeStatus(&b, v)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeStatus(b *strings.Builder, v coordinator.View) {
	fmt.Fprintf(b, "%s %s\n", statusDot(v.Status.Kind), v.Status.Text)
	if !v.Media.Valid() {
		return
	}
	m := v.Media
	state := "⏸"
	if m.IsPlaying {
		state = "▶"
	}
	fmt.Fprintf(b, "\n%s %s\n", m.Platform.Icon(), truncate(plain(m.Title), titleWidth))
	fmt.Fprintf(b, "   %s %s", state, domain.FormatTime(m.CurrentTime))
	if m.Duration > 0 {
		fmt.Fprintf(b, " / %s", domain.FormatTime(m.Duration))
	}
	b.WriteString("\n")
}

func statusDot(k coordinator.StatusKind) string {
	switch k {
	case coordinator.StatusConnected, coordinator.StatusSaved:
		return "●"
	case coordinator.StatusError:
		return "✖"
	default:
		return "○"
	}
}

// plain drops control characters so stored text cannot move the cursor or
// recolour the terminal.
func plain(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
