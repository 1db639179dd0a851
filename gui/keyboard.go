package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// runeToScanCode translates a physical key rune to the raylib key code.
// Raylib codes for letters and digits coincide with uppercase ascii.
func runeToScanCode(r rune) int32 {
	if r >= 'a' && r <= 'z' {
		return int32(r) - 32
	}
	return int32(r)
}

// handleKeyPress mirrors the held state of every mapped key into the
// in-memory keyboard the cpu polls.
func (app *ConsoleApp) handleKeyPress() {
	for _, key := range app.Cpu.KeyMap {
		if rl.IsKeyDown(runeToScanCode(key)) {
			app.Press(key)
		} else {
			app.Release(key)
		}
	}
}
