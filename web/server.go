package web

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/guslan/xo8"
)

type Server struct {
	*xo8.Screen
	*xo8.InMemoryKeyboard
	*xo8.DummyAudio

	cpu       *xo8.Cpu
	debugger  *Debugger
	staticDir string

	socket  *websocket.Conn
	wsMutex sync.RWMutex
}

type ServerConfig struct {
	UseDebugger bool
	StaticDir   string
	Speed       uint
	Quirks      xo8.Quirks
	KeyMap      xo8.KeyMap
}

type ServerConfigCb func(config *ServerConfig)

func WithDebugger() ServerConfigCb {
	return func(config *ServerConfig) {
		config.UseDebugger = true
	}
}

func WithStaticDir(dir string) ServerConfigCb {
	return func(config *ServerConfig) {
		config.StaticDir = dir
	}
}

func WithSpeed(inHz uint) ServerConfigCb {
	return func(config *ServerConfig) {
		config.Speed = inHz
	}
}

func WithQuirks(quirks xo8.Quirks) ServerConfigCb {
	return func(config *ServerConfig) {
		config.Quirks = quirks
	}
}

func WithKeyMap(keyMap xo8.KeyMap) ServerConfigCb {
	return func(config *ServerConfig) {
		config.KeyMap = keyMap
	}
}

func NewServer(mem xo8.Memory, configs ...ServerConfigCb) *Server {
	config := &ServerConfig{
		UseDebugger: false,
		StaticDir:   "./static",
		Speed:       xo8.DefaultSpeed,
		Quirks:      xo8.Quirks{},
		KeyMap:      xo8.DefaultKeyMap,
	}
	for _, cb := range configs {
		cb(config)
	}

	s := &Server{
		Screen:           xo8.NewScreen(),
		InMemoryKeyboard: xo8.NewInMemoryKeyboard(),
		DummyAudio:       xo8.NewDummyAudio(),

		cpu:       nil,
		debugger:  nil,
		staticDir: config.StaticDir,

		wsMutex: sync.RWMutex{},
	}

	s.cpu = xo8.NewCpu(mem, s, s, s.DummyAudio,
		xo8.WithSpeed(config.Speed),
		xo8.WithQuirks(config.Quirks),
		xo8.WithKeyMap(config.KeyMap),
	)
	if config.UseDebugger {
		s.debugger = NewDebugger(s.cpu)
	}

	return s
}

func (server *Server) Speed(s int) {
	server.cpu.SetSpeedInHz(uint(s))
}

// Cpu exposes the machine driven by this server.
func (server *Server) Cpu() *xo8.Cpu {
	return server.cpu
}

func (server *Server) Listen(port int) error {
	if err := server.cpu.Boot(); err != nil {
		slog.Error(err.Error())
		log.Fatalln(err)
	}

	go func() {
		server.cpu.Stop()
		if err := server.cpu.Loop(); err != nil {
			log.Fatalln(err)
		}
	}()

	slog.Info("Listening on port", slog.Int("port", port))

	http.Handle("/", http.FileServer(http.Dir(server.staticDir)))

	http.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

		w.Header().Set("Cache-Control", "no-cache")

		slog.Info("Starting")
		server.cpu.Start()
	})
	http.HandleFunc("/stop", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

		w.Header().Set("Cache-Control", "no-cache")

		slog.Info("Stopping")
		server.cpu.Stop()
	})
	http.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

		w.Header().Set("Cache-Control", "no-cache")

		slog.Info("Stopping and resetting")
		server.cpu.Stop()
		server.cpu.Reset()
	})
	http.HandleFunc("/step", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

		w.Header().Set("Cache-Control", "no-cache")

		slog.Info("Single cycle")
		server.cpu.SingleStep()
	})
	http.HandleFunc("/display", server.handleDisplay)

	return http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
}

// LoadProgram loads the program into memory and resets the machine
func (server *Server) LoadProgram(program []byte) error {
	return server.cpu.LoadProgram(program)
}
