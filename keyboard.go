package xo8

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/term"
)

// KeyMap translates the 16 logical keys of the keypad to physical keys.
type KeyMap [16]rune

// DefaultKeyMap lays the keypad over the left-hand side of a qwerty keyboard.
var DefaultKeyMap = KeyMap{
	'g',           // 0
	'4', '5', '6', // 1 2 3
	'7', 'r', 't', // 4 5 6
	'y', 'u', 'f', // 7 8 9
	'h', 'j', // A B
	'v', 'b', 'n', 'm', // C D E F
}

type Keyboard interface {
	// Boot initializes the component
	Boot() error
	// IsDown reports whether the physical key is currently held
	IsDown(key rune) bool
}

// DummyKeyboard is a keyboard without keys to press
type DummyKeyboard struct{}

func NewDummyKeyboard() *DummyKeyboard {
	return &DummyKeyboard{}
}

// Boot implements Keyboard.
func (kb *DummyKeyboard) Boot() error {
	return nil
}

func (kb *DummyKeyboard) IsDown(key rune) bool {
	return false
}

// InMemoryKeyboard holds key state set by the host program.
// Press and Release are safe to call from other goroutines.
type InMemoryKeyboard struct {
	mu   sync.RWMutex
	down map[rune]bool
}

func NewInMemoryKeyboard() *InMemoryKeyboard {
	return &InMemoryKeyboard{
		down: make(map[rune]bool),
	}
}

// Boot implements Keyboard.
func (kb *InMemoryKeyboard) Boot() error {
	return nil
}

func (kb *InMemoryKeyboard) IsDown(key rune) bool {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.down[key]
}

func (kb *InMemoryKeyboard) Press(key rune) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.down[key] = true
}

func (kb *InMemoryKeyboard) Release(key rune) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	delete(kb.down, key)
}

func (kb *InMemoryKeyboard) ReleaseAll() {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	clear(kb.down)
}

// DefaultHoldWindow is how long a key read from the terminal counts as held.
const DefaultHoldWindow = 150 * time.Millisecond

// TerminalKeyboard reads keys from the controlling terminal in raw mode.
// Terminals report presses, not holds, so every byte read keeps its key
// down for HoldWindow before it decays back to released.
type TerminalKeyboard struct {
	HoldWindow time.Duration
	// Interrupt is called when ctrl-c arrives, since raw mode swallows the signal
	Interrupt func()

	mu       sync.Mutex
	lastSeen map[rune]time.Time
	tty      *term.Term
}

func NewTerminalKeyboard() *TerminalKeyboard {
	return &TerminalKeyboard{
		HoldWindow: DefaultHoldWindow,
		lastSeen:   make(map[rune]time.Time),
	}
}

// Boot implements Keyboard.
// It puts the terminal in raw mode and starts draining key presses.
func (kb *TerminalKeyboard) Boot() error {
	if kb.tty != nil {
		return nil
	}

	tty, err := term.Open("/dev/tty")
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := term.RawMode(tty); err != nil {
		tty.Close()
		return fmt.Errorf("entering raw mode: %w", err)
	}
	kb.tty = tty

	go kb.readLoop()

	return nil
}

func (kb *TerminalKeyboard) readLoop() {
	buff := make([]byte, 1)
	for {
		n, err := kb.tty.Read(buff)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		if buff[0] == 0x03 && kb.Interrupt != nil {
			kb.Interrupt()
			continue
		}

		kb.mu.Lock()
		kb.lastSeen[rune(buff[0])] = time.Now()
		kb.mu.Unlock()
	}
}

func (kb *TerminalKeyboard) IsDown(key rune) bool {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return time.Since(kb.lastSeen[key]) <= kb.HoldWindow
}

// Close restores the terminal to its previous mode.
func (kb *TerminalKeyboard) Close() error {
	if kb.tty == nil {
		return nil
	}
	kb.tty.Restore()
	return kb.tty.Close()
}
