package xo8

import (
	"io"
	"os"
)

// Display abstraction for a display.
// The pixel methods are the drawing surface the cpu works against,
// Render pushes the current pixels to whatever the display shows on.
type Display interface {
	// Boot initializes the component
	Boot() error

	DrawPixel(x, y int, on bool, plane byte) bool
	GetPixel(x, y int, plane byte) bool
	Clear(plane byte)
	ScrollDown(n int, plane byte)
	ScrollUp(n int, plane byte)
	ScrollLeft(plane byte)
	ScrollRight(plane byte)
	Width() int
	Height() int
	SetExtended()
	SetNormal()
	Extended() bool

	// Render
	Render() error
}

// DummyDisplay is a display that keeps the pixels in memory and renders nowhere
type DummyDisplay struct {
	*Screen
}

func NewDummyDisplay() *DummyDisplay {
	return &DummyDisplay{Screen: NewScreen()}
}

func (d *DummyDisplay) Boot() error {
	return nil
}

func (d *DummyDisplay) Render() error {
	return nil
}

const ESC = 0x1B

type TerminalDisplay struct {
	*Screen
	terminal io.Writer
	// Chars per composite color, from blank up to both planes lit
	Chars [4]string
}

func NewTerminalDisplay() *TerminalDisplay {
	return NewTerminalDisplayWithOutput(os.Stdout)
}

func NewTerminalDisplayWithOutput(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{
		Screen:   NewScreen(),
		terminal: out,
		Chars:    [4]string{"  ", "##", "--", "@@"},
	}
}

// Boot implements Display.
func (disp *TerminalDisplay) Boot() error {
	_, err := disp.terminal.Write([]byte{
		// Move cursor do start
		ESC, '[', '1', 'H',
		// clear the terminal
		ESC, '[', '0', 'J',
	})

	return err
}

func (disp *TerminalDisplay) Render() error {
	w, h := disp.Width(), disp.Height()
	pixels := disp.Snapshot()

	buff := make([]byte, 0, w*h*2+h*2+64)
	buff = append(buff, ESC, '[', '1', 'H')
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buff = append(buff, disp.Chars[pixels[y*w+x]&0b11]...)
		}
		buff = append(buff, '|', '\n')
	}

	_, err := disp.terminal.Write(buff)
	return err
}
