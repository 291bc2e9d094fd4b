package apps

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Image is a procedurally drawn picture. Pixel receives coordinates in [0,1].
type Image struct {
	Name  string
	Pixel func(x, y float64) colorful.Color
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// Images returns the built-in gallery.
func Images() []Image {
	return []Image{
		{Name: "Sunset", Pixel: sunset},
		{Name: "Ocean", Pixel: ocean},
		{Name: "Aurora", Pixel: aurora},
		{Name: "Checkerboard", Pixel: checkerboard},
		{Name: "Rings", Pixel: rings},
	}
}

func sunset(x, y float64) colorful.Color {
	sky := hex("#2b1055").BlendLuv(hex("#ff7e5f"), clamp01(y*1.4))
	if y > 0.7 {
		sky = hex("#1a1a2e").BlendLuv(hex("#16213e"), (y-0.7)/0.3)
	}
	dx, dy := (x-0.5)*1.6, y-0.62
	if d := math.Hypot(dx, dy); d < 0.18 && y <= 0.7 {
		return hex("#ffd56b").BlendLuv(sky, d/0.18*0.4)
	}
	return sky
}

func ocean(x, y float64) colorful.Color {
	wave := 0.05 * math.Sin(x*math.Pi*6+y*8)
	depth := clamp01(y + wave)
	return hex("#a8e6ff").BlendLuv(hex("#03396c"), depth)
}

func aurora(x, y float64) colorful.Color {
	night := hex("#020111").BlendLuv(hex("#0b2545"), y)
	band := math.Exp(-math.Pow((y-0.35-0.12*math.Sin(x*math.Pi*3))/0.1, 2))
	glow := hex("#3ddc97").BlendLuv(hex("#9b5de5"), x)
	return night.BlendLuv(glow, clamp01(band))
}

func checkerboard(x, y float64) colorful.Color {
	if (int(x*8)+int(y*8))%2 == 0 {
		return hex("#eeeeee")
	}
	return hex("#333333")
}

func rings(x, y float64) colorful.Color {
	d := math.Hypot((x-0.5)*1.6, y-0.5)
	hue := math.Mod(d*720, 360)
	return colorful.Hsv(hue, 0.6, 0.95-clamp01(d)*0.4)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Gallery is an image viewer cycling through Images.
type Gallery struct {
	windowID   string
	images     []Image
	index      int
	thumbnails bool
}

func NewGallery(windowID string) *Gallery {
	return &Gallery{windowID: windowID, images: Images(), thumbnails: true}
}

func (g *Gallery) Init() tea.Cmd { return nil }

func (g *Gallery) Capturing() bool { return false }

// Index returns the position of the displayed image.
func (g *Gallery) Index() int { return g.index }

// Current returns the displayed image.
func (g *Gallery) Current() Image { return g.images[g.index] }

// Next advances to the following image, wrapping at the end.
func (g *Gallery) Next() {
	g.index = (g.index + 1) % len(g.images)
}

// Prev moves to the previous image, wrapping at the start.
func (g *Gallery) Prev() {
	g.index = (g.index - 1 + len(g.images)) % len(g.images)
}

// Caption reads "i of n".
func (g *Gallery) Caption() string {
	return fmt.Sprintf("%d of %d", g.index+1, len(g.images))
}

func (g *Gallery) Update(msg tea.Msg) (App, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}
	switch s := key.String(); s {
	case "right", "l", "n", " ":
		g.Next()
	case "left", "h", "p":
		g.Prev()
	case "t":
		g.thumbnails = !g.thumbnails
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(g.images) {
				g.index = i
			}
		}
	}
	return g, nil
}

// render draws img into w x h cells, two vertical pixels per cell.
func render(img Image, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	var b strings.Builder
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			x := (float64(col) + 0.5) / float64(w)
			top := img.Pixel(x, (float64(row*2)+0.5)/float64(h*2))
			bottom := img.Pixel(x, (float64(row*2)+1.5)/float64(h*2))
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Clamped().Hex())).
				Background(lipgloss.Color(bottom.Clamped().Hex())).
				Render("▀"))
		}
		if row < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (g *Gallery) View(width, height int, pal Palette) string {
	img := g.Current()
	caption := lipgloss.NewStyle().Bold(true).Foreground(pal.Text).Render(img.Name) +
		lipgloss.NewStyle().Foreground(pal.Muted).Render("  "+g.Caption())
	help := lipgloss.NewStyle().Foreground(pal.Muted).Render("←/→ browse · 1-5 jump · t thumbnails")

	reserved := 2
	var strip string
	if g.thumbnails && height >= 12 {
		strip = g.thumbStrip(width, pal)
		reserved += lipgloss.Height(strip)
	}

	imgH := height - reserved
	imgW := width
	if imgH < 1 {
		return fit(caption, width, height)
	}

	parts := []string{render(img, imgW, imgH), caption}
	if strip != "" {
		parts = append(parts, strip)
	}
	parts = append(parts, help)
	return fit(lipgloss.JoinVertical(lipgloss.Left, parts...), width, height)
}

func (g *Gallery) thumbStrip(width int, pal Palette) string {
	n := len(g.images)
	tw := (width - n) / n
	if tw < 3 {
		return ""
	}
	if tw > 10 {
		tw = 10
	}
	var thumbs []string
	for i, img := range g.images {
		border := lipgloss.HiddenBorder()
		style := lipgloss.NewStyle().Border(border)
		if i == g.index {
			style = style.Border(lipgloss.NormalBorder()).BorderForeground(pal.Accent)
		}
		thumbs = append(thumbs, style.Render(render(img, tw-2, 2)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, thumbs...)
}
