package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/guslan/xo8"
	"github.com/guslan/xo8/gui"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
}

func main() {
	autostart := flag.Bool("start", false, "Starts the console automatically if there is a program loaded (defaults = false).")
	initialSpeed := flag.Uint("speed", xo8.DefaultSpeed, fmt.Sprintf("The starting speed of the CPU in Hz. It has to be in the range [5, 700] (defaults = %d).", xo8.DefaultSpeed))
	scale := flag.Int("scale", gui.DefaultScale, "Size of a hi-res pixel in device pixels.")
	memSize := flag.String("mem", "4K", "Memory size, 4K or 64K.")
	trace := flag.Bool("trace", false, "Log every executed instruction.")
	color0 := flag.String("color-0", "000000", "Background color as RRGGBB.")
	color1 := flag.String("color-1", "ff33cc", "First plane color as RRGGBB.")
	color2 := flag.String("color-2", "33ccff", "Second plane color as RRGGBB.")
	color3 := flag.String("color-3", "ffffff", "Color when both planes are lit as RRGGBB.")
	shiftQuirks := flag.Bool("shift-quirks", false, "Shift operations work on Vx only.")
	indexQuirks := flag.Bool("index-quirks", false, "Register stores and loads leave I untouched.")
	jumpQuirks := flag.Bool("jump-quirks", false, "Jump with offset reads the register picked by the address.")
	clipQuirks := flag.Bool("clip-quirks", false, "Sprites clip at the screen edge instead of wrapping.")
	logicQuirks := flag.Bool("logic-quirks", false, "Logic operations clear VF.")

	flag.Parse()

	colors := gui.DefaultColors
	for i, s := range []string{*color0, *color1, *color2, *color3} {
		c, err := gui.ParseHexColor(s)
		if err != nil {
			log.Fatalln(err)
		}
		colors[i] = c
	}

	size, err := parseMemorySize(*memSize)
	if err != nil {
		log.Fatalln(err)
	}

	app := gui.NewConsoleApp(
		gui.WithSpeed(max(*initialSpeed, xo8.MinSpeed)),
		gui.WithScale(*scale),
		gui.WithColors(colors),
		gui.WithMemorySize(size),
		gui.WithQuirks(xo8.Quirks{
			Shift: *shiftQuirks,
			Index: *indexQuirks,
			Jump:  *jumpQuirks,
			Clip:  *clipQuirks,
			Logic: *logicQuirks,
		}),
	)

	if *trace {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		app.Cpu.AddAfterCycleHook(xo8.TraceHook(logger))
	}

	if flag.NArg() > 0 {
		app.Load(flag.Arg(0))
	}

	app.Run(*autostart)
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
