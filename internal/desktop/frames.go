package desktop

import (
	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/tiling"
	"github.com/1broseidon/termdesk/internal/wm"
)

// frame is the on-screen geometry of one window. It survives minimize so a
// restored window reappears where it was.
type frame struct {
	rect       tiling.Rect
	fullscreen bool
	// saved is the rect to return to when leaving fullscreen.
	saved tiling.Rect
}

// frames tracks geometry per window id inside the desktop area.
type frames struct {
	byID map[string]*frame
	cfg  config.WindowConfig
	area tiling.Rect
}

func newFrames(cfg config.WindowConfig) *frames {
	return &frames{byID: make(map[string]*frame), cfg: cfg}
}

func (f *frames) get(id string) (*frame, bool) {
	fr, ok := f.byID[id]
	return fr, ok
}

// place gives id a frame if it has none: default size, centred and cascaded
// off any visible window sharing the slot.
func (f *frames) place(id string, visible []wm.Window) *frame {
	if fr, ok := f.byID[id]; ok {
		return fr
	}
	r := tiling.Center(f.area, f.cfg.DefaultWidth, f.cfg.DefaultHeight)
	var taken []tiling.Rect
	for _, w := range visible {
		if other, ok := f.byID[w.ID]; ok && w.ID != id {
			taken = append(taken, other.rect)
		}
	}
	r = tiling.Cascade(r, f.area, f.cfg.CascadeStep, taken)
	fr := &frame{rect: f.clamp(r)}
	f.byID[id] = fr
	return fr
}

func (f *frames) remove(id string) {
	delete(f.byID, id)
}

func (f *frames) clamp(r tiling.Rect) tiling.Rect {
	return tiling.Clamp(r, f.area, f.cfg.MinWidth, f.cfg.MinHeight)
}

// resize updates the desktop area and keeps every frame inside it.
func (f *frames) resize(area tiling.Rect) {
	f.area = area
	for _, fr := range f.byID {
		if fr.fullscreen {
			fr.rect = area
			continue
		}
		fr.rect = f.clamp(fr.rect)
	}
}

func (f *frames) move(id string, x, y int) {
	fr, ok := f.byID[id]
	if !ok || fr.fullscreen {
		return
	}
	fr.rect.X, fr.rect.Y = x, y
	fr.rect = f.clamp(fr.rect)
}

func (f *frames) resizeTo(id string, width, height int) {
	fr, ok := f.byID[id]
	if !ok || fr.fullscreen {
		return
	}
	if width < f.cfg.MinWidth {
		width = f.cfg.MinWidth
	}
	if height < f.cfg.MinHeight {
		height = f.cfg.MinHeight
	}
	if limit := f.area.Right() - fr.rect.X; width > limit {
		width = limit
	}
	if limit := f.area.Bottom() - fr.rect.Y; height > limit {
		height = limit
	}
	fr.rect.Width, fr.rect.Height = width, height
}

func (f *frames) toggleFullscreen(id string) {
	fr, ok := f.byID[id]
	if !ok {
		return
	}
	if fr.fullscreen {
		fr.fullscreen = false
		fr.rect = f.clamp(fr.saved)
		return
	}
	fr.saved = fr.rect
	fr.fullscreen = true
	fr.rect = f.area
}

// tile arranges the given windows, bottom of the stack first, in a grid.
func (f *frames) tile(order []wm.Window) {
	rects := tiling.CalculatePositions(len(order), f.area, 0)
	for i, w := range order {
		fr, ok := f.byID[w.ID]
		if !ok {
			continue
		}
		fr.fullscreen = false
		fr.rect = f.clamp(rects[i])
	}
}
