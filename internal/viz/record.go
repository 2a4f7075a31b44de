package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/quanta/internal/draw"
)

const (
	charW = 8
	charH = 16
	// gifDelay is in hundredths of a second.
	gifDelay = 2
)

var ErrEmptyRecording = errors.New("viz: nothing recorded")

var gifPalette = func() color.Palette {
	p := color.Palette{color.Black, draw.White, draw.Gray, draw.DarkGray}
	for _, c := range draw.Palette {
		p = append(p, c)
	}
	return p
}()

// Recording collects canvas frames for a GIF. Every lit braille dot becomes
// a charW/2 x charH/4 block in the cell's colour.
type Recording struct {
	frames []*image.Paletted
}

func (r *Recording) Len() int { return len(r.frames) }

func (r *Recording) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), gifPalette)
	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.Grid[row][col] == blank {
				continue
			}
			idx := uint8(gifPalette.Index(c.Colors[row][col]))
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !c.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					baseX, baseY := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+px, baseY+py, idx)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recording) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrEmptyRecording
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the recording to path and clears it.
func (r *Recording) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrEmptyRecording
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	defer f.Close()
	if err := r.Encode(f); err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}
	r.frames = nil
	return nil
}
