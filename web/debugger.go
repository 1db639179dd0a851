package web

import (
	"fmt"
	"net/http"

	"github.com/guslan/xo8"
)

// Debugger streams the machine state over server-sent events.
type Debugger struct {
	Cpu *xo8.Cpu
	// SendEvery thins the stream down to every n-th cycle
	SendEvery uint

	send chan string
}

// NewDebugger creates a new debugger and registers its hooks.
// The cpu is stopped so the first start or step comes from the client.
func NewDebugger(cpu *xo8.Cpu) *Debugger {
	deb := &Debugger{
		Cpu:       cpu,
		SendEvery: 1,
		send:      make(chan string, 64),
	}

	deb.setupRoutes()

	cpu.AddAfterCycleHook(deb.afterCycle)
	cpu.Stop()

	return deb
}

func (d *Debugger) setupRoutes() {
	http.HandleFunc("/debugger/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		running := true
		for running {
			select {
			case state := <-d.send:
				fmt.Fprintf(w, "data: %s\n\n", state)
				w.(http.Flusher).Flush()

			case <-r.Context().Done():
				running = false
			}
		}
	})
}

// afterCycle queues the state line without blocking the loop.
// A slow or absent client just loses lines.
func (d *Debugger) afterCycle(cpu *xo8.Cpu) {
	if d.SendEvery > 1 && cpu.Cycles()%d.SendEvery != 0 {
		return
	}

	select {
	case d.send <- cpu.String():
	default:
	}
}
