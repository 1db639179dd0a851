/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	xo8 "github.com/guslan/xo8"
)

func init() {
	// stdout belongs to the terminal display
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})))
}

func main() {
	speed := flag.Uint("speed", xo8.DefaultSpeed, "speed of the cpu in cycles per second")
	delay := flag.Int("delay", 17, "milliseconds between timer ticks")
	memSize := flag.String("mem", "4K", "memory size, 4K or 64K")
	trace := flag.Bool("trace", false, "log every executed instruction to stderr")
	noTerm := flag.Bool("noterm", false, "turn off the terminal display of the emulator")
	shiftQuirks := flag.Bool("shift-quirks", false, "shift operations work on Vx only")
	indexQuirks := flag.Bool("index-quirks", false, "register stores and loads leave I untouched")
	jumpQuirks := flag.Bool("jump-quirks", false, "jump with offset reads the register picked by the address")
	clipQuirks := flag.Bool("clip-quirks", false, "sprites clip at the screen edge instead of wrapping")
	logicQuirks := flag.Bool("logic-quirks", false, "logic operations clear VF")

	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	size, err := parseMemorySize(*memSize)
	if err != nil {
		log.Fatalln(err)
	}
	mem := xo8.NewMemoryWithSize(size)

	var d xo8.Display
	if *noTerm {
		d = xo8.NewDummyDisplay()
	} else {
		d = xo8.NewTerminalDisplay()
	}

	kb := xo8.NewTerminalKeyboard()
	defer kb.Close()

	speaker := xo8.NewSpeaker()
	defer speaker.Close()

	cpu := xo8.NewCpu(mem, d, kb, speaker,
		xo8.WithSpeed(max(*speed, xo8.MinSpeed)),
		xo8.WithDelayInterval(time.Duration(*delay)*time.Millisecond),
		xo8.WithQuirks(xo8.Quirks{
			Shift: *shiftQuirks,
			Index: *indexQuirks,
			Jump:  *jumpQuirks,
			Clip:  *clipQuirks,
			Logic: *logicQuirks,
		}),
	)

	// raw mode swallows the signal, so ctrl-c comes in as a key
	kb.Interrupt = func() {
		kb.Close()
		speaker.Close()
		os.Exit(0)
	}

	if *trace {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		cpu.AddAfterCycleHook(xo8.TraceHook(logger))
	}

	if err := cpu.LoadProgram(program); err != nil {
		log.Fatalln(err)
	}

	if err := cpu.Boot(); err != nil {
		log.Fatalln(err)
	}

	if err := cpu.Loop(); err != nil {
		kb.Close()
		log.Fatalln(err)
	}
}

func parseMemorySize(s string) (int, error) {
	switch strings.ToUpper(s) {
	case "4K":
		return xo8.Memory4K, nil
	case "64K":
		return xo8.Memory64K, nil
	}

	return 0, fmt.Errorf("unknown memory size %q, want 4K or 64K", s)
}
