package window

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/quanta/internal/sim"
)

const (
	barHeight   = 36
	buttonW     = 96
	buttonH     = 24
	buttonGap   = 8
	buttonsLeft = 140
	buttonFont  = 14
)

// Button queues Command when clicked.
type Button struct {
	Label   string
	Rect    rl.Rectangle
	Command sim.Command
}

// MenuButtons lays out the top bar. customK is the k of the n-gon button.
func MenuButtons(customK int) []Button {
	entries := []struct {
		label string
		cmd   sim.Command
	}{
		{"TRIPLET", sim.Command{Kind: sim.SpawnTriplet}},
		{"BATCH", sim.Command{Kind: sim.SpawnBatch}},
		{"HEX", sim.Command{Kind: sim.SpawnHex}},
		{"N-GON", sim.Command{Kind: sim.SpawnCustom, Minors: customK}},
		{"RESET", sim.Command{Kind: sim.Reset}},
	}
	buttons := make([]Button, len(entries))
	y := float32(barHeight-buttonH) / 2
	for i, e := range entries {
		x := float32(buttonsLeft + i*(buttonW+buttonGap))
		buttons[i] = Button{
			Label:   e.label,
			Rect:    rl.NewRectangle(x, y, buttonW, buttonH),
			Command: e.cmd,
		}
	}
	return buttons
}

// HitButton returns the button under p, if any.
func HitButton(buttons []Button, p rl.Vector2) (Button, bool) {
	for _, b := range buttons {
		if rl.CheckCollisionPointRec(p, b.Rect) {
			return b, true
		}
	}
	return Button{}, false
}

// OverMenu reports whether p is on the top bar, where clicks never reach
// the world.
func OverMenu(p rl.Vector2) bool { return p.Y < barHeight }
