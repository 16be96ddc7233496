package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/timemark/internal/coordinator"
	"github.com/MrSnakeDoc/timemark/internal/domain"
)

func TestRenderConnected(t *testing.T) {
	v := coordinator.View{
		Status: coordinator.Status{Kind: coordinator.StatusConnected, Text: "Connected to Spotify"},
		Media: &domain.MediaSnapshot{
			Platform:    domain.PlatformAudio,
			Title:       "Artist - Song",
			CurrentTime: 75,
			Duration:    200,
			IsPlaying:   true,
		},
		CanCapture: true,
		Bookmarks: []domain.Bookmark{
			{Platform: domain.PlatformVideo, Title: "Talk", TimestampDisplay: "1:02:05", Note: "demo"},
		},
		Total: 3,
	}

	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"● Connected to Spotify",
		"🎵 Artist - Song",
		"▶ 1:15 / 3:20",
		"[b] bookmark this moment",
		"Recent bookmarks (3)",
		"1. 📺 1:02:05  Talk",
		"demo",
		"… and 2 more",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDisconnected(t *testing.T) {
	v := coordinator.View{
		Status: coordinator.Status{Kind: coordinator.StatusDisconnected, Text: coordinator.MsgNoMedia},
	}
	var buf bytes.Buffer
	_ = Render(&buf, v)
	out := buf.String()

	if !strings.Contains(out, "○ "+coordinator.MsgNoMedia) {
		t.Errorf("missing status:\n%s", out)
	}
	if strings.Contains(out, "[b]") {
		t.Errorf("capture offered without media:\n%s", out)
	}
	if !strings.Contains(out, "No bookmarks yet") {
		t.Errorf("missing empty list:\n%s", out)
	}
}

func TestRenderCapturing(t *testing.T) {
	v := coordinator.View{
		State:     coordinator.Capturing,
		Status:    coordinator.Status{Kind: coordinator.StatusConnected, Text: "Connected to YouTube"},
		Media:     &domain.MediaSnapshot{Platform: domain.PlatformVideo, Title: "Talk", CurrentTime: 65},
		SaveError: coordinator.MsgSaveFailed,
	}
	var buf bytes.Buffer
	_ = Render(&buf, v)
	out := buf.String()

	if !strings.Contains(out, "Adding bookmark at 1:05") || !strings.Contains(out, coordinator.MsgSaveFailed) {
		t.Errorf("capture form incomplete:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo world", 5); got != "héll…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestRenderStatusOmitsList(t *testing.T) {
	v := coordinator.View{
		Status: coordinator.Status{Kind: coordinator.StatusConnected, Text: "Connected to YouTube"},
		Media: &domain.MediaSnapshot{
			Platform:    domain.PlatformVideo,
			Title:       "Talk",
			CurrentTime: 3725,
		},
		CanCapture: true,
	}

	var buf bytes.Buffer
	if err := RenderStatus(&buf, v); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "⏸ 1:02:05\n") {
		t.Errorf("missing paused position without duration:\n%s", out)
	}
	if strings.Contains(out, "Recent bookmarks") || strings.Contains(out, "[b]") {
		t.Errorf("status output should not include the list or hints:\n%s", out)
	}
}

func TestRenderListKeepsNoteLines(t *testing.T) {
	list := []domain.Bookmark{{
		Platform:         domain.PlatformVideo,
		Title:            "Best of <Kids> 2024\x1b[31m",
		TimestampDisplay: "0:42",
		Note:             "line one\nline two",
	}}

	var buf bytes.Buffer
	RenderList(&buf, list, 1)
	out := buf.String()

	for _, want := range []string{"Best of <Kids> 2024", "       line one\n", "       line two\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b") {
		t.Errorf("control characters reached the terminal: %q", out)
	}
}

func TestRenderHTML(t *testing.T) {
	v := coordinator.View{
		Status: coordinator.Status{Kind: coordinator.StatusConnected, Text: "Connected to YouTube"},
		Media:  &domain.MediaSnapshot{Platform: domain.PlatformVideo, Title: "Live <Set>", CurrentTime: 65, Duration: 120},
		Bookmarks: []domain.Bookmark{{
			Platform:         domain.PlatformVideo,
			Title:            "Best of <Kids> 2024",
			URL:              "https://www.youtube.com/watch?v=abc",
			TimestampSeconds: 30,
			TimestampDisplay: "0:30",
			Note:             "compare <Intro> vs <Outro>\nthen <img src=x onerror=alert(1)>",
		}},
		Total: 4,
	}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, v); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"● Connected to YouTube",
		"Live &lt;Set&gt;",
		"1:05 / 2:00",
		"Best of &lt;Kids&gt; 2024",
		"compare &lt;Intro&gt; vs &lt;Outro&gt;<br",
		"&lt;img src=x onerror=alert(1)&gt;",
		"t=30s",
		"… and 3 more",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<img") || strings.Contains(out, "<Kids>") {
		t.Errorf("raw markup in html:\n%s", out)
	}
}

func TestRenderHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, coordinator.View{Status: coordinator.Status{Kind: coordinator.StatusDisconnected, Text: coordinator.MsgUnsupported}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "No bookmarks yet") || strings.Contains(out, `class="media"`) {
		t.Errorf("unexpected empty popup:\n%s", out)
	}
}
