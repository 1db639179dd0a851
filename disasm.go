package xo8

import "fmt"

// Disassemble renders an opcode as assembly-like text.
// Operands that live in the next word, like the long index load target,
// are not visible to it.
func Disassemble(opCode uint16) string {
	x := (opCode & 0x0F00) >> 8
	y := (opCode & 0x00F0) >> 4
	n := opCode & 0x000F
	kk := opCode & 0x00FF
	nnn := opCode & 0x0FFF

	switch opCode & 0xF000 {
	case 0x0000:
		switch {
		case opCode == 0x00E0:
			return "CLS"
		case opCode == 0x00EE:
			return "RET"
		case opCode&0xFFF0 == 0x00C0:
			return fmt.Sprintf("SCRD %X", n)
		case opCode&0xFFF0 == 0x00D0:
			return fmt.Sprintf("SCRU %X", n)
		case opCode == 0x00FB:
			return "SCRR"
		case opCode == 0x00FC:
			return "SCRL"
		case opCode == 0x00FD:
			return "EXIT"
		case opCode == 0x00FE:
			return "NORMAL"
		case opCode == 0x00FF:
			return "EXTENDED"
		default:
			return fmt.Sprintf("SYS %03X", nnn)
		}

	case 0x1000:
		return fmt.Sprintf("JP %03X", nnn)

	case 0x2000:
		return fmt.Sprintf("CALL %03X", nnn)

	case 0x3000:
		return fmt.Sprintf("SE V%X, %02X", x, kk)

	case 0x4000:
		return fmt.Sprintf("SNE V%X, %02X", x, kk)

	case 0x5000:
		switch opCode & 0x000F {
		case 0x0000:
			return fmt.Sprintf("SE V%X, V%X", x, y)
		case 0x0002:
			return fmt.Sprintf("STORSUB V%X, V%X", x, y)
		case 0x0003:
			return fmt.Sprintf("LOADSUB V%X, V%X", x, y)
		}

	case 0x6000:
		return fmt.Sprintf("LD V%X, %02X", x, kk)

	case 0x7000:
		return fmt.Sprintf("ADD V%X, %02X", x, kk)

	case 0x8000:
		switch opCode & 0x000F {
		case 0x0000:
			return fmt.Sprintf("LD V%X, V%X", x, y)
		case 0x0001:
			return fmt.Sprintf("OR V%X, V%X", x, y)
		case 0x0002:
			return fmt.Sprintf("AND V%X, V%X", x, y)
		case 0x0003:
			return fmt.Sprintf("XOR V%X, V%X", x, y)
		case 0x0004:
			return fmt.Sprintf("ADD V%X, V%X", x, y)
		case 0x0005:
			return fmt.Sprintf("SUB V%X, V%X", x, y)
		case 0x0006:
			return fmt.Sprintf("SHR V%X, V%X", x, y)
		case 0x0007:
			return fmt.Sprintf("SUBN V%X, V%X", x, y)
		case 0x000E:
			return fmt.Sprintf("SHL V%X, V%X", x, y)
		}

	case 0x9000:
		return fmt.Sprintf("SNE V%X, V%X", x, y)

	case 0xA000:
		return fmt.Sprintf("LD I, %03X", nnn)

	case 0xB000:
		return fmt.Sprintf("JP V0, %03X", nnn)

	case 0xC000:
		return fmt.Sprintf("RND V%X, %02X", x, kk)

	case 0xD000:
		return fmt.Sprintf("DRW V%X, V%X, %X", x, y, n)

	case 0xE000:
		switch opCode & 0x00FF {
		case 0x009E:
			return fmt.Sprintf("SKP V%X", x)
		case 0x00A1:
			return fmt.Sprintf("SKNP V%X", x)
		}

	case 0xF000:
		switch opCode & 0x00FF {
		case 0x0000:
			return "LOADLONG"
		case 0x0001:
			return fmt.Sprintf("BITPLANE %X", x)
		case 0x0002:
			return "AUDIO"
		case 0x0007:
			return fmt.Sprintf("LD V%X, DT", x)
		case 0x000A:
			return fmt.Sprintf("LD V%X, K", x)
		case 0x0015:
			return fmt.Sprintf("LD DT, V%X", x)
		case 0x0018:
			return fmt.Sprintf("LD ST, V%X", x)
		case 0x001E:
			return fmt.Sprintf("ADD I, V%X", x)
		case 0x0029:
			return fmt.Sprintf("LD F, V%X", x)
		case 0x0030:
			return fmt.Sprintf("LD HF, V%X", x)
		case 0x0033:
			return fmt.Sprintf("LD B, V%X", x)
		case 0x003A:
			return fmt.Sprintf("PITCH V%X", x)
		case 0x0055:
			return fmt.Sprintf("LD [I], V%X", x)
		case 0x0065:
			return fmt.Sprintf("LD V%X, [I]", x)
		case 0x0075:
			return fmt.Sprintf("SRPL V%X", x)
		case 0x0085:
			return fmt.Sprintf("LRPL V%X", x)
		}
	}

	return fmt.Sprintf("DW %04X", opCode)
}
