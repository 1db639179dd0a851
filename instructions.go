package xo8

import "crypto/rand"

// Execute runs a single, already fetched opcode against the machine state.
// PC has moved past the instruction by the time it runs, which is what
// the skip distance and the long index load rely on.
func (cpu *Cpu) Execute(opCode uint16) error {
	x := (opCode & 0x0F00) >> 8
	y := (opCode & 0x00F0) >> 4
	n := byte(opCode & 0x000F)
	kk := byte(opCode & 0x00FF)
	nnn := opCode & 0x0FFF

	switch opCode & 0xF000 {
	case 0x0000:
		switch {
		case opCode == 0x00E0:
			// CLS :: Clear the active bitplane.
			cpu.Display.Clear(cpu.Bitplane)
			cpu.isScreenDirty = true

		case opCode == 0x00EE:
			// RET :: Return from a subroutine.
			cpu.Sp--
			high := uint16(cpu.Memory[cpu.Sp])
			cpu.Sp--
			low := uint16(cpu.Memory[cpu.Sp])
			cpu.Pc = high<<8 | low

		case opCode&0xFFF0 == 0x00C0:
			// SCRD n :: Scroll the active bitplane down n pixels.
			cpu.Display.ScrollDown(int(n), cpu.Bitplane)
			cpu.isScreenDirty = true

		case opCode&0xFFF0 == 0x00D0:
			// SCRU n :: Scroll the active bitplane up n pixels.
			cpu.Display.ScrollUp(int(n), cpu.Bitplane)
			cpu.isScreenDirty = true

		case opCode == 0x00FB:
			// SCRR :: Scroll the active bitplane right 4 pixels.
			cpu.Display.ScrollRight(cpu.Bitplane)
			cpu.isScreenDirty = true

		case opCode == 0x00FC:
			// SCRL :: Scroll the active bitplane left 4 pixels.
			cpu.Display.ScrollLeft(cpu.Bitplane)
			cpu.isScreenDirty = true

		case opCode == 0x00FD:
			// EXIT :: Stop execution.
			cpu.running = false

		case opCode == 0x00FE:
			// DISABLEEXT :: Switch to normal mode. Pixels survive the switch.
			cpu.Display.SetNormal()
			cpu.isScreenDirty = true

		case opCode == 0x00FF:
			// ENABLEEXT :: Switch to extended mode. Pixels survive the switch.
			cpu.Display.SetExtended()
			cpu.isScreenDirty = true

		default:
			// SYS :: Jump to a machine code routine at nnn.
			// Handed to the interpreter when one is set, an error otherwise.
			if cpu.MachineRoutineInterpreter != nil {
				return cpu.MachineRoutineInterpreter(opCode, cpu)
			}
			return ErrOpCodeUnknown{
				OpCode: opCode,
				Pc:     cpu.Pc,
			}
		}

	case 0x1000:
		// JP addr :: Jump to location nnn.
		cpu.Pc = nnn

	case 0x2000:
		// CALL addr :: Call subroutine at nnn.
		// The return address goes into memory at SP, low byte first.
		cpu.Memory[cpu.Sp] = byte(cpu.Pc & 0x00FF)
		cpu.Memory[cpu.Sp+1] = byte(cpu.Pc >> 8)
		cpu.Sp += 2

		cpu.Pc = nnn

	case 0x3000:
		// SE Vx, byte :: Skip next instruction if Vx = kk.
		if cpu.V[x] == kk {
			cpu.skipNextInstruction()
		}

	case 0x4000:
		// SNE Vx, byte :: Skip next instruction if Vx != kk.
		if cpu.V[x] != kk {
			cpu.skipNextInstruction()
		}

	case 0x5000:
		switch opCode & 0x000F {
		case 0x0000:
			// SE Vx, Vy :: Skip next instruction if Vx = Vy.
			if cpu.V[x] == cpu.V[y] {
				cpu.skipNextInstruction()
			}

		case 0x0002:
			// STORSUB Vx, Vy :: Store registers Vx through Vy at I.
			cpu.storeSubset(int(x), int(y))

		case 0x0003:
			// LOADSUB Vx, Vy :: Load registers Vx through Vy from I.
			cpu.loadSubset(int(x), int(y))

		default:
			return ErrOpCodeUnknown{
				OpCode: opCode,
				Pc:     cpu.Pc,
			}
		}

	case 0x6000:
		// LD Vx, byte :: Set Vx = kk.
		cpu.V[x] = kk

	case 0x7000:
		// ADD Vx, byte :: Set Vx = Vx + kk.
		cpu.V[x] = cpu.V[x] + kk

	case 0x8000:
		// Inter-register operations

		switch opCode & 0x000F {
		case 0x0000:
			// LD Vx, Vy :: Set Vx = Vy.
			cpu.V[x] = cpu.V[y]

		case 0x0001:
			// OR Vx, Vy :: Set Vx = Vx OR Vy.
			cpu.V[x] |= cpu.V[y]
			if cpu.Quirks.Logic {
				cpu.V[0xF] = 0
			}

		case 0x0002:
			// AND Vx, Vy :: Set Vx = Vx AND Vy.
			cpu.V[x] &= cpu.V[y]
			if cpu.Quirks.Logic {
				cpu.V[0xF] = 0
			}

		case 0x0003:
			// XOR Vx, Vy :: Set Vx = Vx XOR Vy.
			cpu.V[x] ^= cpu.V[y]
			if cpu.Quirks.Logic {
				cpu.V[0xF] = 0
			}

		case 0x0004:
			// ADD Vx, Vy :: Set Vx = Vx + Vy, set VF = carry.
			r := uint16(cpu.V[x]) + uint16(cpu.V[y])
			cpu.V[x] = byte(r & 0x00FF)
			cpu.V[0xF] = byte(r >> 8)

		case 0x0005:
			// SUB Vx, Vy :: Set Vx = Vx - Vy, set VF = NOT borrow.
			carry := cpu.V[x] >= cpu.V[y]
			cpu.V[x] = cpu.V[x] - cpu.V[y]
			cpu.V[0xF] = bool2byte(carry)

		case 0x0006:
			// SHR Vx {, Vy} :: Set Vx = Vy SHR 1, shifting Vx itself under the shift quirk.
			src := cpu.V[y]
			if cpu.Quirks.Shift {
				src = cpu.V[x]
			}
			carry := src & 0b00000001
			cpu.V[x] = src >> 1
			cpu.V[0xF] = carry

		case 0x0007:
			// SUBN Vx, Vy :: Set Vx = Vy - Vx, set VF = NOT borrow.
			carry := cpu.V[y] >= cpu.V[x]
			cpu.V[x] = cpu.V[y] - cpu.V[x]
			cpu.V[0xF] = bool2byte(carry)

		case 0x000E:
			// SHL Vx {, Vy} :: Set Vx = Vy SHL 1, shifting Vx itself under the shift quirk.
			src := cpu.V[y]
			if cpu.Quirks.Shift {
				src = cpu.V[x]
			}
			carry := (src & 0b10000000) >> 7
			cpu.V[x] = src << 1
			cpu.V[0xF] = carry

		default:
			return ErrOpCodeUnknown{
				OpCode: opCode,
				Pc:     cpu.Pc,
			}
		}

	case 0x9000:
		// SNE Vx, Vy :: Skip next instruction if Vx != Vy.
		if cpu.V[x] != cpu.V[y] {
			cpu.skipNextInstruction()
		}

	case 0xA000:
		// LD I, addr :: Set I = nnn.
		cpu.I = nnn

	case 0xB000:
		// JP V0, addr :: Jump to nnn + V0.
		// Under the jump quirk the top nibble of the address selects the
		// register and only the low byte is the offset.
		if cpu.Quirks.Jump {
			cpu.Pc = uint16(cpu.V[x]) + (opCode & 0x00FF)
		} else {
			cpu.Pc = uint16(cpu.V[0]) + nnn
		}

	case 0xC000:
		// RND Vx, byte :: Set Vx = random byte AND kk.
		buff := [1]byte{}
		c, err := rand.Read(buff[:])
		if c != 1 || err != nil {
			return err
		}

		cpu.V[x] = buff[0] & kk

	case 0xD000:
		// DRW Vx, Vy, nibble :: Display the sprite at I at (Vx, Vy), set VF = collision.
		cpu.drawSprite(x, y, n)

	case 0xE000:
		switch opCode & 0x00FF {
		case 0x009E:
			// SKP Vx :: Skip next instruction if key with the value of Vx is pressed.
			// Key codes above 0xF never skip.
			if cpu.V[x] <= 0xF && cpu.Keyboard.IsDown(cpu.KeyMap[cpu.V[x]]) {
				cpu.skipNextInstruction()
			}

		case 0x00A1:
			// SKNP Vx :: Skip next instruction if key with the value of Vx is not pressed.
			if cpu.V[x] <= 0xF && !cpu.Keyboard.IsDown(cpu.KeyMap[cpu.V[x]]) {
				cpu.skipNextInstruction()
			}

		default:
			return ErrOpCodeUnknown{
				OpCode: opCode,
				Pc:     cpu.Pc,
			}
		}

	case 0xF000:
		switch opCode & 0x00FF {
		case 0x0000:
			// LOADLONG :: Set I to the next word and step over it.
			cpu.I = uint16(cpu.Memory[cpu.Pc])<<8 | uint16(cpu.Memory[cpu.Pc+1])
			cpu.Pc += 2

		case 0x0001:
			// BITPLANE x :: Select the bitplane drawing operations work on.
			cpu.Bitplane = byte(x)

		case 0x0002:
			// AUDIO :: Load the 16-byte tone pattern from I.
			copy(cpu.Pattern[:], cpu.Memory[cpu.I:cpu.I+16])
			return cpu.refreshWaveform()

		case 0x0007:
			// LD Vx, DT :: Set Vx = delay timer value.
			cpu.V[x] = cpu.Dt

		case 0x000A:
			// LD Vx, K :: Suspend until a key is pressed, store the value of the key in Vx.
			cpu.waitingForKey = true
			cpu.keyDstRegister = x

		case 0x0015:
			// LD DT, Vx :: Set delay timer = Vx.
			cpu.Dt = cpu.V[x]

		case 0x0018:
			// LD ST, Vx :: Set sound timer = Vx.
			cpu.St = cpu.V[x]

		case 0x001E:
			// ADD I, Vx :: Set I = I + Vx.
			cpu.I = cpu.I + uint16(cpu.V[x])

		case 0x0029:
			// LD F, Vx :: Set I = location of the 5-byte sprite for digit Vx.
			cpu.I = uint16(cpu.V[x]) * 5

		case 0x0030:
			// LD HF, Vx :: Set I = location of the 10-byte sprite for digit Vx.
			cpu.I = uint16(cpu.V[x]) * 10

		case 0x0033:
			// LD B, Vx :: Store BCD representation of Vx in memory locations I, I+1, and I+2.
			value := cpu.V[x]
			cpu.Memory[cpu.I+0] = value / 100
			cpu.Memory[cpu.I+1] = (value / 10) % 10
			cpu.Memory[cpu.I+2] = value % 10

		case 0x003A:
			// PITCH Vx :: Set the pitch register and retune the playback rate.
			cpu.Pitch = cpu.V[x]
			cpu.playbackRate = PlaybackRate(cpu.Pitch)
			return cpu.refreshWaveform()

		case 0x0055:
			// LD [I], Vx :: Store registers V0 through Vx in memory starting at location I.
			for i := uint16(0); i <= x; i++ {
				cpu.Memory[cpu.I+i] = cpu.V[i]
			}
			if !cpu.Quirks.Index {
				cpu.I += x + 1
			}

		case 0x0065:
			// LD Vx, [I] :: Read registers V0 through Vx from memory starting at location I.
			for i := uint16(0); i <= x; i++ {
				cpu.V[i] = cpu.Memory[cpu.I+i]
			}
			if !cpu.Quirks.Index {
				cpu.I += x + 1
			}

		case 0x0075:
			// SRPL Vx :: Store registers V0 through Vx in the user flags.
			for i := uint16(0); i <= x; i++ {
				cpu.Rpl[i] = cpu.V[i]
			}

		case 0x0085:
			// LRPL Vx :: Read registers V0 through Vx from the user flags.
			for i := uint16(0); i <= x; i++ {
				cpu.V[i] = cpu.Rpl[i]
			}

		default:
			return ErrOpCodeUnknown{
				OpCode: opCode,
				Pc:     cpu.Pc,
			}
		}
	}

	return nil
}

// skipNextInstruction advances PC over the next instruction, stepping
// over both words when the next instruction is a long index load.
func (cpu *Cpu) skipNextInstruction() {
	if cpu.Memory[cpu.Pc] == 0xF0 && cpu.Memory[cpu.Pc+1] == 0x00 {
		cpu.Pc += 4
	} else {
		cpu.Pc += 2
	}
}

// storeSubset copies registers x through y to memory at I, walking the
// range backwards when y is below x. I does not move.
func (cpu *Cpu) storeSubset(x, y int) {
	ptr := cpu.I
	if y >= x {
		for z := x; z <= y; z++ {
			cpu.Memory[ptr] = cpu.V[z]
			ptr++
		}
	} else {
		for z := x; z >= y; z-- {
			cpu.Memory[ptr] = cpu.V[z]
			ptr++
		}
	}
}

// loadSubset copies memory at I into registers x through y, walking the
// range backwards when y is below x. I does not move.
func (cpu *Cpu) loadSubset(x, y int) {
	ptr := cpu.I
	if y >= x {
		for z := x; z <= y; z++ {
			cpu.V[z] = cpu.Memory[ptr]
			ptr++
		}
	} else {
		for z := x; z >= y; z-- {
			cpu.V[z] = cpu.Memory[ptr]
			ptr++
		}
	}
}

// drawSprite xors a sprite from memory onto the screen and leaves the
// collision count in VF.
// A zero sprite height always means a 16x16 sprite, whatever the mode.
// Drawing to both planes reads two sprites back to back, one per plane.
func (cpu *Cpu) drawSprite(x, y uint16, n byte) {
	// The origin is taken as is; wrapping or clipping happens pixel by pixel.
	xPos := int(cpu.V[x])
	yPos := int(cpu.V[y])
	cpu.V[0xF] = 0

	if n == 0 {
		if cpu.Bitplane == BothPlanes {
			cpu.drawExtended(xPos, yPos, FirstPlane, cpu.I)
			cpu.drawExtended(xPos, yPos, SecondPlane, cpu.I+32)
		} else {
			cpu.drawExtended(xPos, yPos, cpu.Bitplane, cpu.I)
		}
	} else {
		if cpu.Bitplane == BothPlanes {
			cpu.drawNormal(xPos, yPos, n, FirstPlane, cpu.I)
			cpu.drawNormal(xPos, yPos, n, SecondPlane, cpu.I+uint16(n))
		} else {
			cpu.drawNormal(xPos, yPos, n, cpu.Bitplane, cpu.I)
		}
	}

	cpu.isScreenDirty = true
}

// drawNormal draws an 8 pixel wide sprite. VF saturates at 1 on collision.
// Out of bounds pixels wrap around, or get dropped under the clip quirk.
func (cpu *Cpu) drawNormal(xPos, yPos int, numBytes byte, plane byte, index uint16) {
	w, h := cpu.Display.Width(), cpu.Display.Height()

	for yIndex := 0; yIndex < int(numBytes); yIndex++ {
		yCoord := yPos + yIndex
		if cpu.Quirks.Clip && yCoord >= h {
			continue
		}
		yCoord %= h

		colorByte := cpu.Memory[index+uint16(yIndex)]
		for xIndex := 0; xIndex < 8; xIndex++ {
			if cpu.Quirks.Clip && xPos+xIndex >= w {
				continue
			}
			xCoord := (xPos + xIndex) % w

			on := colorByte&(0x80>>xIndex) != 0
			if cpu.Display.DrawPixel(xCoord, yCoord, on, plane) {
				cpu.V[0xF] |= 1
			}
		}
	}
}

// drawExtended draws a 16x16 sprite. VF counts every colliding pixel,
// and rows pushed off the bottom each count once per sprite byte.
// The bottom edge always clips; the sides follow the clip quirk.
func (cpu *Cpu) drawExtended(xPos, yPos int, plane byte, index uint16) {
	w, h := cpu.Display.Width(), cpu.Display.Height()

	for yIndex := 0; yIndex < 16; yIndex++ {
		for xByte := 0; xByte < 2; xByte++ {
			yCoord := yPos + yIndex
			if yCoord >= h {
				cpu.V[0xF]++
				continue
			}

			colorByte := cpu.Memory[index+uint16(yIndex*2+xByte)]
			for xIndex := 0; xIndex < 8; xIndex++ {
				if cpu.Quirks.Clip && xPos+xIndex+xByte*8 >= w {
					continue
				}
				xCoord := (xPos + xIndex + xByte*8) % w

				on := colorByte&(0x80>>xIndex) != 0
				if cpu.Display.DrawPixel(xCoord, yCoord, on, plane) {
					cpu.V[0xF]++
				}
			}
		}
	}
}

// refreshWaveform regenerates the audio samples after the pattern or the
// playback rate changed. A playing tone is restarted so the new samples
// take over.
func (cpu *Cpu) refreshWaveform() error {
	samples := GenerateWaveform(cpu.Pattern, cpu.playbackRate)

	if cpu.soundPlaying {
		if err := cpu.Audio.Stop(); err != nil {
			return err
		}
	}
	if err := cpu.Audio.SetWaveform(samples); err != nil {
		return err
	}
	if cpu.soundPlaying {
		return cpu.Audio.PlayLooping()
	}

	return nil
}
