package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/xo8"
)

// Boot implements xo8.Display.
func (app *ConsoleApp) Boot() error {
	return nil
}

// Render implements xo8.Display.
// The cpu goroutine publishes a frame here; the UI loop paints the last
// one at its own pace.
func (app *ConsoleApp) Render() error {
	app.frameMu.Lock()
	defer app.frameMu.Unlock()

	app.frame = app.Snapshot()
	app.frameW = app.Width()
	app.frameH = app.Height()

	return nil
}

func (app *ConsoleApp) drawScreen() {
	app.frameMu.Lock()
	frame, w, h := app.frame, app.frameW, app.frameH
	app.frameMu.Unlock()

	if len(frame) == 0 {
		rl.DrawRectangle(
			ScreenPositionX,
			ScreenPositionY,
			int32(xo8.ExtendedWidth*app.scale),
			int32(xo8.ExtendedHeight*app.scale),
			app.colors[0],
		)
		return
	}

	// lo-res pixels cover twice the device pixels of hi-res ones
	px := int32(xo8.ExtendedWidth * app.scale / w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rl.DrawRectangle(
				ScreenPositionX+px*int32(x),
				ScreenPositionY+px*int32(y),
				px,
				px,
				app.colors[frame[y*w+x]&0b11],
			)
		}
	}
}
