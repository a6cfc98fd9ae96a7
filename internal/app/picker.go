package app

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/normalmap-demo/internal/logger"
)

// textureSlot says which texture a picked file replaces.
type textureSlot int

const (
	slotDiffuse textureSlot = iota
	slotNormal
)

func (s textureSlot) String() string {
	if s == slotNormal {
		return "normal map"
	}
	return "diffuse"
}

// pick is a file chosen in the native dialog.
type pick struct {
	slot textureSlot
	path string
}

// picker runs native file dialogs off the render thread and queues the
// result for the main loop, which owns the GL context.
type picker struct {
	picks chan pick
	open  bool
}

func newPicker() *picker {
	return &picker{picks: make(chan pick, 1)}
}

// request opens a dialog unless one is already showing.
func (p *picker) request(slot textureSlot) {
	if p.open {
		return
	}
	p.open = true
	go func() {
		filename, err := dialog.File().
			Filter("Images", "png", "jpg", "jpeg", "bmp", "tif", "tiff", "tga").
			Filter("All Files", "*").
			Title("Open " + slot.String() + " texture").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog error", zap.Error(err))
			}
			filename = ""
		}
		p.picks <- pick{slot: slot, path: filename}
	}()
}

// poll returns a finished pick without blocking. An empty path means the
// dialog was cancelled.
func (p *picker) poll() (pick, bool) {
	select {
	case pk := <-p.picks:
		p.open = false
		return pk, pk.path != ""
	default:
		return pick{}, false
	}
}
