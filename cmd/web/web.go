/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	xo8 "github.com/guslan/xo8"
	"github.com/guslan/xo8/web"
)

func main() {
	port := flag.Int("port", 9999, "The port of the server (default = 9999)")
	speed := flag.Uint("speed", xo8.DefaultSpeed, "Speed in cycles per second")
	staticDir := flag.String("static", "./static", "Directory with the web client files")
	debug := flag.Bool("debug", true, "Stream the machine state over /debugger/events")
	memSize := flag.String("mem", "4K", "Memory size, 4K or 64K")
	shiftQuirks := flag.Bool("shift-quirks", false, "Shift operations work on Vx only")
	indexQuirks := flag.Bool("index-quirks", false, "Register stores and loads leave I untouched")
	jumpQuirks := flag.Bool("jump-quirks", false, "Jump with offset reads the register picked by the address")
	clipQuirks := flag.Bool("clip-quirks", false, "Sprites clip at the screen edge instead of wrapping")
	logicQuirks := flag.Bool("logic-quirks", false, "Logic operations clear VF")

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
	configs := []web.ServerConfigCb{
		web.WithStaticDir(*staticDir),
		web.WithSpeed(max(*speed, xo8.MinSpeed)),
		web.WithQuirks(xo8.Quirks{
			Shift: *shiftQuirks,
			Index: *indexQuirks,
			Jump:  *jumpQuirks,
			Clip:  *clipQuirks,
			Logic: *logicQuirks,
		}),
	}
	if *debug {
		configs = append(configs, web.WithDebugger())
	}

	server := web.NewServer(mem, configs...)

	if err := server.LoadProgram(program); err != nil {
		log.Fatalln(err)
	}
	if err := server.Listen(*port); err != nil {
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
