package apps

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/wm"
)

func TestGalleryWraps(t *testing.T) {
	g := NewGallery("w1")
	n := len(Images())

	g.Prev()
	if g.Index() != n-1 {
		t.Fatalf("prev from first = %d, want %d", g.Index(), n-1)
	}
	g.Next()
	if g.Index() != 0 {
		t.Fatalf("next from last = %d, want 0", g.Index())
	}
	if g.Caption() != "1 of 5" {
		t.Fatalf("caption = %q", g.Caption())
	}
}

func TestGalleryKeys(t *testing.T) {
	tests := []struct {
		keys []tea.KeyMsg
		want int
	}{
		{[]tea.KeyMsg{{Type: tea.KeyRight}}, 1},
		{[]tea.KeyMsg{{Type: tea.KeyLeft}}, 4},
		{[]tea.KeyMsg{runes("4")}, 3},
		{[]tea.KeyMsg{runes("9")}, 0},
		{[]tea.KeyMsg{runes("l"), runes("l"), runes("h")}, 1},
	}
	for _, tt := range tests {
		g := NewGallery("w1")
		for _, k := range tt.keys {
			g.Update(k)
		}
		if g.Index() != tt.want {
			t.Errorf("keys %v: index = %d, want %d", tt.keys, g.Index(), tt.want)
		}
	}
}

func TestGalleryImagesDrawInGamut(t *testing.T) {
	for _, img := range Images() {
		for _, p := range [][2]float64{{0, 0}, {0.5, 0.5}, {1, 1}, {0.25, 0.8}} {
			c := img.Pixel(p[0], p[1])
			if hex := c.Clamped().Hex(); len(hex) != 7 {
				t.Errorf("%s(%v) hex = %q", img.Name, p, hex)
			}
		}
	}
}

func TestGalleryView(t *testing.T) {
	g := NewGallery("w1")
	g.Next()
	out := g.View(50, 16, DarkPalette())
	if !strings.Contains(out, "Ocean") || !strings.Contains(out, "2 of 5") {
		t.Fatalf("view missing caption")
	}
	if !strings.Contains(out, "▀") {
		t.Fatal("view has no image cells")
	}
}

func TestNewByKind(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"pomodoro", "*apps.Pomodoro"},
		{"todo", "*apps.Todo"},
		{"terminal", "*apps.Shell"},
		{"image", "*apps.Gallery"},
	}
	for _, tt := range tests {
		kind, err := wm.ParseKind(tt.kind)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tt.kind, err)
		}
		app := New(kind, "w1", Deps{})
		if got := fmt.Sprintf("%T", app); got != tt.want {
			t.Errorf("New(%s) = %s, want %s", tt.kind, got, tt.want)
		}
		if c, ok := app.(Closer); ok {
			c.Close()
		}
	}
}
