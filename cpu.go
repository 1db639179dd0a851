package xo8

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var ErrCpuIsNotBooted = errors.New("the CPU has not been booted properly")

type ErrOpCodeUnknown struct {
	OpCode uint16
	Pc     uint16
}

func (err ErrOpCodeUnknown) Error() string {
	return fmt.Sprintf("unknown opcode=%X at PC=%d", err.OpCode, err.Pc)
}

// MachineRoutineInterpreter interpretes machine code routines that the
// cpu itself does not implement. Unmatched system opcodes are handed to
// it when set; otherwise they surface as ErrOpCodeUnknown.
type MachineRoutineInterpreter func(opCode uint16, cpu *Cpu) error

// Chip-8 CPU with the Super-Chip and XO-Chip extensions
type Cpu struct {
	Memory Memory
	// V 8-bit registers
	V [16]byte
	// Rpl user flag registers
	Rpl [16]byte
	// I 16-bit register
	I uint16
	// Delay timer register
	Dt byte
	// Sound timer register
	St byte
	// Program counter
	Pc uint16
	// Stack pointer. Return addresses live in memory, so this indexes
	// into it and moves two bytes per call.
	Sp uint16
	// Pitch register; the playback rate is derived from it
	Pitch byte
	// Pattern holds the 16-byte tone pattern
	Pattern [16]byte
	// Bitplane currently drawn to
	Bitplane byte

	Quirks Quirks
	KeyMap KeyMap

	cycles uint
	frames uint

	speedInHz     uint
	step          time.Duration
	delayInterval time.Duration
	lastTick      time.Time

	playbackRate  float64
	soundPlaying  bool
	isScreenDirty bool

	Display  Display
	Keyboard Keyboard
	Audio    Audio

	MachineRoutineInterpreter MachineRoutineInterpreter

	loadOffset     uint16
	isBooted       bool
	isPaused       bool
	running        bool
	waitingForKey  bool
	keyDstRegister uint16
	lastPc         uint16
	lastOpCode     uint16
	lastError      error

	// Hooks that run before every frame
	beforeFrameHooks []Hook
	// Hooks that run before every cycle
	beforeCycleHooks []Hook
	// Hooks that run after every cycle
	afterCycleHooks []Hook
	// Hooks that run after every frame
	afterFrameHooks []Hook
	// Hooks that run after an error
	errorHooks []Hook
}

const (
	DefaultSpeed uint = 500
	MaxSpeed     uint = 700
	MinSpeed     uint = 5

	// DefaultDelayInterval is how often the timers tick.
	DefaultDelayInterval = 17 * time.Millisecond
)

// CpuOption configures a Cpu at construction time
type CpuOption func(*Cpu)

// WithQuirks sets the behaviour variants the cpu runs with.
func WithQuirks(quirks Quirks) CpuOption {
	return func(cpu *Cpu) {
		cpu.Quirks = quirks
	}
}

// WithKeyMap sets the logical-to-physical key translation.
func WithKeyMap(keyMap KeyMap) CpuOption {
	return func(cpu *Cpu) {
		cpu.KeyMap = keyMap
	}
}

// WithSpeed sets the starting speed in cycles per second.
func WithSpeed(inHz uint) CpuOption {
	return func(cpu *Cpu) {
		cpu.SetSpeedInHz(inHz)
	}
}

// WithDelayInterval sets how often the timers tick.
func WithDelayInterval(interval time.Duration) CpuOption {
	return func(cpu *Cpu) {
		cpu.delayInterval = interval
	}
}

// WithLoadOffset sets the address programs load at and start from.
func WithLoadOffset(offset uint16) CpuOption {
	return func(cpu *Cpu) {
		cpu.loadOffset = offset
	}
}

// WithMachineRoutineInterpreter sets the fallback for unmatched system opcodes.
func WithMachineRoutineInterpreter(interpreter MachineRoutineInterpreter) CpuOption {
	return func(cpu *Cpu) {
		cpu.MachineRoutineInterpreter = interpreter
	}
}

func NewCpu(memory Memory, display Display, keyboard Keyboard, audio Audio, opts ...CpuOption) *Cpu {
	cpu := &Cpu{
		Memory: memory,

		V:        [16]byte{},
		Rpl:      [16]byte{},
		I:        0,
		Dt:       0,
		St:       0,
		Pc:       0,
		Sp:       startOfStack,
		Pitch:    DefaultPitch,
		Pattern:  [16]byte{},
		Bitplane: FirstPlane,

		Quirks: Quirks{},
		KeyMap: DefaultKeyMap,

		speedInHz:     DefaultSpeed,
		step:          time.Second / time.Duration(DefaultSpeed),
		delayInterval: DefaultDelayInterval,

		playbackRate:  DefaultPlaybackRate,
		soundPlaying:  false,
		isScreenDirty: false,

		Display:  display,
		Keyboard: keyboard,
		Audio:    audio,

		MachineRoutineInterpreter: nil,

		loadOffset:     startOfProgram,
		isBooted:       false,
		isPaused:       false,
		running:        true,
		waitingForKey:  false,
		keyDstRegister: 0,
		lastError:      nil,

		beforeFrameHooks: make([]Hook, 0),
		beforeCycleHooks: make([]Hook, 0),
		afterCycleHooks:  make([]Hook, 0),
		afterFrameHooks:  make([]Hook, 0),
		errorHooks:       make([]Hook, 0),
	}

	for _, opt := range opts {
		opt(cpu)
	}

	cpu.Pc = cpu.loadOffset

	return cpu
}

func (cpu *Cpu) IsRunning() bool {
	return cpu.running && !cpu.isPaused
}

func (cpu *Cpu) IsSoundTimerActive() bool {
	return cpu.St > 0
}

func (cpu *Cpu) IsDelayTimerActive() bool {
	return cpu.Dt > 0
}

func (cpu *Cpu) SpeedInHz() uint {
	return cpu.speedInHz
}

func (cpu *Cpu) SetSpeedInHz(inHz uint) {
	cpu.speedInHz = inHz
	cpu.step = time.Second / time.Duration(inHz)
}

func (cpu *Cpu) DelayInterval() time.Duration {
	return cpu.delayInterval
}

func (cpu *Cpu) SetDelayInterval(interval time.Duration) {
	cpu.delayInterval = interval
}

func (cpu *Cpu) LoadOffset() uint16 {
	return cpu.loadOffset
}

func (cpu *Cpu) Cycles() uint {
	return cpu.cycles
}

func (cpu *Cpu) Frames() uint {
	return cpu.frames
}

func (cpu *Cpu) LastError() error {
	return cpu.lastError
}

// LastOpCode returns the opcode of the last executed instruction.
func (cpu *Cpu) LastOpCode() uint16 {
	return cpu.lastOpCode
}

// LastPc returns the address the last instruction was fetched from.
func (cpu *Cpu) LastPc() uint16 {
	return cpu.lastPc
}

// WaitingForKeypress reports whether the cpu is suspended on a key wait.
func (cpu *Cpu) WaitingForKeypress() bool {
	return cpu.waitingForKey
}

// Boot initializes all the components
// If the CPU was already booted, this method is a noop
func (cpu *Cpu) Boot() error {
	if cpu.isBooted {
		return nil
	}

	if err := cpu.Display.Boot(); err != nil {
		return err
	}

	if err := cpu.Keyboard.Boot(); err != nil {
		return err
	}

	if err := cpu.Audio.Boot(); err != nil {
		return err
	}

	cpu.isBooted = true

	return nil
}

// LoadProgram loads the program into memory and resets the machine
func (cpu *Cpu) LoadProgram(program []byte) error {
	cpu.Reset()
	return cpu.Memory.LoadProgramAt(program, cpu.loadOffset)
}

// LoadProgramFromFile reads a rom from disk and loads it
func (cpu *Cpu) LoadProgramFromFile(path string) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading the rom: %w", err)
	}

	return cpu.LoadProgram(program)
}

// Reset puts every register back to its power-on value.
// Memory is left alone, so the loaded program survives.
func (cpu *Cpu) Reset() {
	cpu.V = [16]byte{}
	cpu.Rpl = [16]byte{}
	cpu.I = 0
	cpu.Dt = 0
	cpu.St = 0
	cpu.Pc = cpu.loadOffset
	cpu.Sp = startOfStack
	cpu.Pitch = DefaultPitch
	cpu.playbackRate = DefaultPlaybackRate
	cpu.Pattern = [16]byte{}
	cpu.Bitplane = FirstPlane
	cpu.frames = 0
	cpu.cycles = 0
	cpu.running = true
	cpu.waitingForKey = false
	cpu.lastError = nil
	cpu.lastTick = time.Now()

	if cpu.soundPlaying {
		cpu.Audio.Stop()
		cpu.soundPlaying = false
	}

	cpu.Display.SetNormal()
	cpu.Display.Clear(BothPlanes)
	cpu.Display.Render()
}

// Start resumes execution after a Stop
func (cpu *Cpu) Start() {
	cpu.isPaused = false
}

// Stop pauses execution. The loop keeps spinning but executes nothing.
func (cpu *Cpu) Stop() {
	cpu.isPaused = true
}

// Loop sets the speed an starts the loop
func (cpu *Cpu) LoopAtSpeed(speedInHz uint) error {
	cpu.SetSpeedInHz(speedInHz)
	return cpu.Loop()
}

// Loop starts the loop at the current speed.
// It returns when the program exits, runs off the end of memory, or an
// error surfaces.
func (cpu *Cpu) Loop() error {
	if !cpu.isBooted {
		return ErrCpuIsNotBooted
	}

	if cpu.lastError != nil {
		return cpu.lastError
	}

	var last time.Time

	for {
		if done, err := cpu.runNextCycle(); err != nil {
			return err
		} else if done {
			return nil
		}

		// Prevent the CPU from running faster than expected
		time.Sleep(max(cpu.step-time.Since(last), 0))
		last = time.Now()
	}
}

// SingleStep runs a single cycle bypassing the pause state
func (cpu *Cpu) SingleStep() error {
	if !cpu.isBooted {
		return ErrCpuIsNotBooted
	}

	if cpu.lastError != nil {
		return cpu.lastError
	}

	prev := cpu.isPaused
	cpu.isPaused = false
	defer func(cpu *Cpu, prev bool) {
		cpu.isPaused = prev
	}(cpu, prev)

	if _, err := cpu.runNextCycle(); err != nil {
		return err
	}

	return nil
}

func (cpu *Cpu) runNextCycle() (bool, error) {
	cpu.runBeforeFrameHooks()

	if cpu.isPaused {
		return false, nil
	}

	if cpu.waitingForKey {
		cpu.DeliverKeypress()
	} else {
		cpu.runBeforeCycleHooks()
		if _, err := cpu.Step(); err != nil {
			cpu.lastError = err
			cpu.runErrorHooks()
			return false, err
		}
		cpu.cycles++
		cpu.runAfterCycleHooks()

		if !cpu.running {
			return true, nil
		}
		if int(cpu.Pc)+1 >= len(cpu.Memory) {
			return true, nil
		}
	}

	if time.Since(cpu.lastTick) >= cpu.delayInterval {
		cpu.lastTick = time.Now()
		if err := cpu.DecrementTimers(); err != nil {
			cpu.lastError = err
			cpu.runErrorHooks()
			return false, err
		}
	}

	if cpu.isScreenDirty {
		cpu.isScreenDirty = false
		if err := cpu.Display.Render(); err != nil {
			cpu.lastError = err
			cpu.runErrorHooks()
			return false, err
		}
	}

	cpu.frames++

	cpu.runAfterFrameHooks()

	return false, nil
}

// Step fetches and executes a single instruction.
// It returns the opcode that ran so hosts can trace it.
func (cpu *Cpu) Step() (uint16, error) {
	var opCode uint16
	opCode |= uint16(cpu.Memory[cpu.Pc+0]) << 8
	opCode |= uint16(cpu.Memory[cpu.Pc+1]) << 0

	cpu.lastPc = cpu.Pc
	cpu.lastOpCode = opCode
	cpu.Pc += 2

	return opCode, cpu.Execute(opCode)
}

// DeliverKeypress scans the keypad in logical order and completes a
// pending key wait with the first key found down.
// It reports whether a key was delivered.
func (cpu *Cpu) DeliverKeypress() bool {
	if !cpu.waitingForKey {
		return false
	}

	for code := 0; code < 16; code++ {
		if cpu.Keyboard.IsDown(cpu.KeyMap[code]) {
			cpu.V[cpu.keyDstRegister] = byte(code)
			cpu.waitingForKey = false
			return true
		}
	}

	return false
}

// DecrementTimers ticks both timers once and drives the sound device.
// The sound timer only counts down while the delay timer is live, but
// playback follows the sound timer alone.
func (cpu *Cpu) DecrementTimers() error {
	if cpu.Dt > 0 {
		cpu.Dt--
	}
	if cpu.St > 0 && cpu.Dt > 0 {
		cpu.St--
	}

	if cpu.St > 0 && !cpu.soundPlaying {
		if err := cpu.Audio.PlayLooping(); err != nil {
			return err
		}
		cpu.soundPlaying = true
	}
	if cpu.St == 0 && cpu.soundPlaying {
		if err := cpu.Audio.Stop(); err != nil {
			return err
		}
		cpu.soundPlaying = false
	}

	return nil
}

func (cpu *Cpu) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "PC:%04X OP:%04X I:%04X SP:%04X DT:%02X ST:%02X",
		cpu.lastPc, cpu.lastOpCode, cpu.I, cpu.Sp, cpu.Dt, cpu.St)
	for i, v := range cpu.V {
		fmt.Fprintf(&sb, " V%X:%02X", i, v)
	}
	fmt.Fprintf(&sb, " %s", Disassemble(cpu.lastOpCode))

	return sb.String()
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
