package xo8

// Quirks toggles the behaviour variants that differ between Chip-8
// interpreter lineages. Zero value matches the modern XO-Chip rules.
type Quirks struct {
	// Shift makes 8xy6 and 8xyE read and write Vx, ignoring Vy.
	Shift bool
	// Index leaves I untouched after Fx55 and Fx65.
	Index bool
	// Jump makes Bnnn jump to v[top nibble] + low byte instead of v[0] + nnn.
	Jump bool
	// Clip drops sprite pixels that fall off screen instead of wrapping them.
	Clip bool
	// Logic clears VF after 8xy1, 8xy2 and 8xy3.
	Logic bool
}
