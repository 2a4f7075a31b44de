// Package window is the raylib front-end: a zoomable, pannable view of the
// world with a button bar that queues simulation commands.
package window

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/quanta/internal/metrics"
	"github.com/san-kum/quanta/internal/sim"
)

// maxFrameTime caps dt after a stall so one frame cannot fire a burst of
// gravity passes.
const maxFrameTime = float32(0.1)

type App struct {
	sim       *sim.Simulation
	rec       *metrics.Recorder
	cmds      sim.CommandQueue
	camera    *Camera
	buttons   []Button
	surface   Surface
	width     int32
	height    int32
	running   bool
	showStats bool
	quit      bool
	log       *slog.Logger
}

// NewApp wraps s. The app feeds every frame to rec itself.
func NewApp(s *sim.Simulation, rec *metrics.Recorder, width, height int32, log *slog.Logger) *App {
	if rec == nil {
		rec = metrics.DefaultRecorder(600)
	}
	if log == nil {
		log = slog.Default()
	}
	_, max := s.World().Bounds()
	screen := mgl64.Vec2{float64(width), float64(height - barHeight)}
	return &App{
		sim:       s,
		rec:       rec,
		camera:    NewCamera(s.World().Center(), FitZoom(screen, max)),
		buttons:   MenuButtons(s.Settings().Assembly.CustomK),
		width:     width,
		height:    height,
		running:   true,
		showStats: true,
		log:       log.With("component", "window"),
	}
}

// initWindow opens the window at 60 FPS and disables the default exit key.
func initWindow(width, height int32) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, "quanta")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens a window on s and blocks until it is closed.
func Run(s *sim.Simulation, rec *metrics.Recorder, width, height int32, log *slog.Logger) error {
	if width <= 0 || height <= barHeight {
		return fmt.Errorf("window: invalid size %dx%d", width, height)
	}
	initWindow(width, height)
	defer rl.CloseWindow()
	app := NewApp(s, rec, width, height, log)
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	a.log.Info("window opened", "width", a.width, "height", a.height)
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
	a.log.Info("window closed", "frames", a.sim.Frame())
}

func (a *App) raylibCamera() rl.Camera2D {
	return rl.Camera2D{
		Offset:   rl.NewVector2(float32(a.width)/2, float32(barHeight)+float32(a.height-barHeight)/2),
		Target:   toVec(a.camera.Target),
		Rotation: 0,
		Zoom:     float32(a.camera.Zoom),
	}
}

func (a *App) Update() {
	dt := min(rl.GetFrameTime(), maxFrameTime)
	a.camera.Update(dt)
	a.handleKeys()

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		if b, ok := HitButton(a.buttons, mouse); ok {
			a.cmds.Push(b.Command)
		}
	}
	pointer := a.sim.Pointer()
	if !OverMenu(mouse) {
		w := rl.GetScreenToWorld2D(mouse, a.raylibCamera())
		pointer = mgl64.Vec2{float64(w.X), float64(w.Y)}
	}

	if !a.running {
		return
	}
	stats := a.sim.Update(sim.FrameInput{
		Dt:       time.Duration(float64(dt) * float64(time.Second)),
		Pointer:  pointer,
		Commands: &a.cmds,
	})
	a.rec.Observe(stats)
}

func (a *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.running = !a.running
	case rl.IsKeyPressed(rl.KeyTab):
		a.showStats = !a.showStats
	case rl.IsKeyPressed(rl.KeyT):
		a.cmds.Raise(sim.SpawnTriplet)
	case rl.IsKeyPressed(rl.KeyB):
		a.cmds.Raise(sim.SpawnBatch)
	case rl.IsKeyPressed(rl.KeyH):
		a.cmds.Raise(sim.SpawnHex)
	case rl.IsKeyPressed(rl.KeyR):
		a.cmds.Raise(sim.Reset)
		a.rec.Reset()
	}

	for k := int32(rl.KeyOne); k <= rl.KeyNine; k++ {
		if rl.IsKeyPressed(k) {
			a.cmds.Push(sim.Command{Kind: sim.SpawnCustom, Minors: int(k-rl.KeyOne) + 1})
		}
	}

	if rl.IsKeyPressed(rl.KeyKpAdd) || rl.IsKeyPressed(rl.KeyEqual) {
		a.camera.ZoomIn()
	}
	if rl.IsKeyPressed(rl.KeyKpSubtract) || rl.IsKeyPressed(rl.KeyMinus) {
		a.camera.ZoomOut()
	}
	if rl.IsKeyPressed(rl.KeyKpMultiply) || rl.IsKeyPressed(rl.KeyZero) {
		a.camera.Reset()
	}
	if rl.IsKeyPressed(rl.KeyLeft) {
		a.camera.Pan(-1, 0)
	}
	if rl.IsKeyPressed(rl.KeyRight) {
		a.camera.Pan(1, 0)
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		a.camera.Pan(0, -1)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		a.camera.Pan(0, 1)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode2D(a.raylibCamera())
	a.sim.Draw(a.surface)
	rl.EndMode2D()

	a.drawMenu()
	if a.showStats {
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawMenu() {
	rl.DrawRectangle(0, 0, a.width, barHeight, ColBar)
	rl.DrawText("QUANTA", 20, 8, 20, ColTitle)

	mouse := rl.GetMousePosition()
	for _, b := range a.buttons {
		col := ColText
		if rl.CheckCollisionPointRec(mouse, b.Rect) {
			col = ColSelect
		}
		rl.DrawRectangleLinesEx(b.Rect, 1, col)
		tw := rl.MeasureText(b.Label, buttonFont)
		x := int32(b.Rect.X) + (int32(b.Rect.Width)-tw)/2
		y := int32(b.Rect.Y) + (int32(b.Rect.Height)-buttonFont)/2
		rl.DrawText(b.Label, x, y, buttonFont, col)
	}

	status, col := "RUNNING", ColSelect
	if !a.running {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, a.width-100, 10, 16, col)
}

func (a *App) drawHUD() {
	stats := a.rec.Last()
	lines := []string{
		fmt.Sprintf("FRAME     %d", stats.Frame),
		fmt.Sprintf("QUANTA    %d / %d", stats.Population, stats.Floor),
		fmt.Sprintf("JOINTS    %d", stats.Joints),
		fmt.Sprintf("CONTACTS  %d", stats.Contacts),
		fmt.Sprintf("ENERGY    %.1f", stats.KineticEnergy),
		fmt.Sprintf("GRAVITY   %d", a.sim.Field().Passes()),
		fmt.Sprintf("ZOOM      %.2f", a.camera.Zoom),
	}
	y := int32(barHeight + 12)
	for _, l := range lines {
		rl.DrawText(l, 20, y, 14, ColText)
		y += 18
	}

	gx, gy := float32(20), float32(a.height-110)
	drawTelemetry(a.rec.Series(metrics.SeriesEnergy), gx, gy, 300, 60, ColAccent)
	rl.DrawText("ENERGY", int32(gx), int32(gy)+66, 12, ColTextDim)

	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 20, a.height-24, 14, ColTextDim)
	rl.DrawText("[T/B/H/1-9] SPAWN  [R] RESET  [+/-/0] ZOOM  [ARROWS] PAN  [SPACE] PAUSE  [TAB] HUD  [Q] QUIT",
		360, a.height-24, 14, ColTextDim)
}
