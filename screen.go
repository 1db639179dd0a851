package xo8

const (
	// NormalWidth and NormalHeight are the dimensions of the lo-res screen.
	NormalWidth  = 64
	NormalHeight = 32
	// ExtendedWidth and ExtendedHeight are the dimensions of the hi-res screen.
	ExtendedWidth  = 128
	ExtendedHeight = 64
)

// Plane selectors. They can be or-ed together to address both planes at once.
const (
	FirstPlane  byte = 0b01
	SecondPlane byte = 0b10
	BothPlanes  byte = FirstPlane | SecondPlane
)

// planeStride is the number of bytes per backing row.
// Both resolutions are byte aligned, so rows never straddle bytes.
const planeStride = ExtendedWidth / 8

// planeSize is the backing size of a single bitplane.
const planeSize = planeStride * ExtendedHeight

// Screen holds the two packed bitplanes of the display.
// The backing always has hi-res capacity; the current mode only changes
// the visible width and height. Switching modes does not clear pixels.
// Pixels are packed MSB first, so pixel (0,0) is the top bit of byte 0.
type Screen struct {
	planes   [2][planeSize]byte
	width    int
	height   int
	extended bool
}

// NewScreen creates a screen in normal (lo-res) mode.
func NewScreen() *Screen {
	return &Screen{
		width:  NormalWidth,
		height: NormalHeight,
	}
}

// Width returns the visible width in pixels.
func (scr *Screen) Width() int {
	return scr.width
}

// Height returns the visible height in pixels.
func (scr *Screen) Height() int {
	return scr.height
}

// Extended reports whether the screen is in hi-res mode.
func (scr *Screen) Extended() bool {
	return scr.extended
}

// SetExtended switches to hi-res mode.
func (scr *Screen) SetExtended() {
	scr.extended = true
	scr.width = ExtendedWidth
	scr.height = ExtendedHeight
}

// SetNormal switches to lo-res mode.
func (scr *Screen) SetNormal() {
	scr.extended = false
	scr.width = NormalWidth
	scr.height = NormalHeight
}

// DrawPixel xors the given value into every selected plane at (x, y) and
// reports whether any lit pixel was erased by the write.
// Coordinates must be inside the current resolution.
func (scr *Screen) DrawPixel(x, y int, on bool, plane byte) bool {
	collided := false
	for p := range scr.planes {
		if plane&(1<<p) == 0 {
			continue
		}
		cur := scr.pixel(p, x, y)
		if on && cur {
			collided = true
		}
		scr.setPixel(p, x, y, cur != on)
	}
	return collided
}

// GetPixel reports whether (x, y) is lit on any of the selected planes.
func (scr *Screen) GetPixel(x, y int, plane byte) bool {
	for p := range scr.planes {
		if plane&(1<<p) == 0 {
			continue
		}
		if scr.pixel(p, x, y) {
			return true
		}
	}
	return false
}

// Clear turns off every pixel of the selected planes.
func (scr *Screen) Clear(plane byte) {
	for p := range scr.planes {
		if plane&(1<<p) == 0 {
			continue
		}
		clear(scr.planes[p][:])
	}
}

// ScrollDown moves the selected planes down n pixels, clearing the top rows.
func (scr *Screen) ScrollDown(n int, plane byte) {
	if n <= 0 {
		return
	}
	if n > scr.height {
		n = scr.height
	}
	row := scr.rowBytes()
	for p := range scr.planes {
		if plane&(1<<p) == 0 {
			continue
		}
		for y := scr.height - 1; y >= n; y-- {
			copy(scr.planes[p][y*planeStride:y*planeStride+row], scr.planes[p][(y-n)*planeStride:(y-n)*planeStride+row])
		}
		for y := 0; y < n; y++ {
			clear(scr.planes[p][y*planeStride : y*planeStride+row])
		}
	}
}

// ScrollUp moves the selected planes up n pixels, clearing the bottom rows.
func (scr *Screen) ScrollUp(n int, plane byte) {
	if n <= 0 {
		return
	}
	if n > scr.height {
		n = scr.height
	}
	row := scr.rowBytes()
	for p := range scr.planes {
		if plane&(1<<p) == 0 {
			continue
		}
		for y := n; y < scr.height; y++ {
			copy(scr.planes[p][(y-n)*planeStride:(y-n)*planeStride+row], scr.planes[p][y*planeStride:y*planeStride+row])
		}
		for y := scr.height - n; y < scr.height; y++ {
			clear(scr.planes[p][y*planeStride : y*planeStride+row])
		}
	}
}

// ScrollRight moves the selected planes right 4 pixels, clearing the left edge.
func (scr *Screen) ScrollRight(plane byte) {
	row := scr.rowBytes()
	for p := range scr.planes {
		if plane&(1<<p) == 0 {
			continue
		}
		for y := 0; y < scr.height; y++ {
			r := scr.planes[p][y*planeStride : y*planeStride+row]
			for i := row - 1; i > 0; i-- {
				r[i] = r[i]>>4 | r[i-1]<<4
			}
			r[0] >>= 4
		}
	}
}

// ScrollLeft moves the selected planes left 4 pixels, clearing the right edge.
func (scr *Screen) ScrollLeft(plane byte) {
	row := scr.rowBytes()
	for p := range scr.planes {
		if plane&(1<<p) == 0 {
			continue
		}
		for y := 0; y < scr.height; y++ {
			r := scr.planes[p][y*planeStride : y*planeStride+row]
			for i := 0; i < row-1; i++ {
				r[i] = r[i]<<4 | r[i+1]>>4
			}
			r[row-1] <<= 4
		}
	}
}

// Snapshot returns the visible pixels as one byte each, row after row.
// Bit 0 of a value is the first plane, bit 1 the second, giving the
// composite color index 0 to 3.
func (scr *Screen) Snapshot() []byte {
	pixels := make([]byte, scr.width*scr.height)
	for y := 0; y < scr.height; y++ {
		for x := 0; x < scr.width; x++ {
			var v byte
			if scr.pixel(0, x, y) {
				v |= 1
			}
			if scr.pixel(1, x, y) {
				v |= 2
			}
			pixels[y*scr.width+x] = v
		}
	}
	return pixels
}

func (scr *Screen) rowBytes() int {
	return scr.width / 8
}

func (scr *Screen) pixel(p, x, y int) bool {
	return scr.planes[p][y*planeStride+x/8]&(0x80>>(x%8)) != 0
}

func (scr *Screen) setPixel(p, x, y int, on bool) {
	if on {
		scr.planes[p][y*planeStride+x/8] |= 0x80 >> (x % 8)
	} else {
		scr.planes[p][y*planeStride+x/8] &^= 0x80 >> (x % 8)
	}
}
