package gui

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/xo8"
)

const (
	ToolbarGap       = 5
	ToolbarBtnWidth  = 80
	ToolbarBtnHeight = 40
	ToolbarHeight    = 50
	ToolbarBtnOffset = ToolbarBtnWidth + ToolbarGap

	ScreenPositionX = 0
	ScreenPositionY = ToolbarHeight + 1

	MessageBarGap   = 5
	MessageBarHeigh = 30

	DefaultScale = 8
)

var MessageBarBgColor = rl.DarkGray
var MessageBarInfoColor = rl.SkyBlue
var MessageBarSuccessColor = rl.Lime
var MessageBarWarningColor = rl.Gold
var MessageBarErrorColor = rl.Red

type MessageType byte

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

type AppConfig struct {
	Scale      int
	Colors     [4]rl.Color
	Speed      uint
	Quirks     xo8.Quirks
	KeyMap     xo8.KeyMap
	MemorySize int
}

type AppConfigCb func(config *AppConfig)

func WithScale(scale int) AppConfigCb {
	return func(config *AppConfig) {
		config.Scale = scale
	}
}

func WithColors(colors [4]rl.Color) AppConfigCb {
	return func(config *AppConfig) {
		config.Colors = colors
	}
}

func WithSpeed(inHz uint) AppConfigCb {
	return func(config *AppConfig) {
		config.Speed = inHz
	}
}

func WithQuirks(quirks xo8.Quirks) AppConfigCb {
	return func(config *AppConfig) {
		config.Quirks = quirks
	}
}

func WithKeyMap(keyMap xo8.KeyMap) AppConfigCb {
	return func(config *AppConfig) {
		config.KeyMap = keyMap
	}
}

func WithMemorySize(size int) AppConfigCb {
	return func(config *AppConfig) {
		config.MemorySize = size
	}
}

type ConsoleApp struct {
	// The pixel surface the cpu draws to
	*xo8.Screen
	// The key state fed from the raylib key polling
	*xo8.InMemoryKeyboard
	// The underlying console
	Cpu *xo8.Cpu

	speaker *xo8.Speaker

	// Speed factor
	// Speed in Hz is speedFactor+1 * 5
	speedFactor float32

	scale  int
	colors [4]rl.Color

	// Frame published by the cpu goroutine for the UI loop to paint
	frameMu sync.Mutex
	frame   []byte
	frameW  int
	frameH  int

	// Window width and height
	winW, winH int

	// Toolbar
	startBtn, stopBtn, stepBtn, restBtn bool

	loadedProgramPath string

	lastMessage      string
	lastMessageColor rl.Color
}

func speedFactorToHz(s float32) uint {
	return uint((s + 1) * 5)
}

func hzToSpeedFactor(hz uint) float32 {
	return float32(hz)/5 - 1
}

func NewConsoleApp(configs ...AppConfigCb) *ConsoleApp {
	config := &AppConfig{
		Scale:      DefaultScale,
		Colors:     DefaultColors,
		Speed:      xo8.DefaultSpeed,
		Quirks:     xo8.Quirks{},
		KeyMap:     xo8.DefaultKeyMap,
		MemorySize: xo8.Memory4K,
	}
	for _, cb := range configs {
		cb(config)
	}

	app := &ConsoleApp{
		Screen:           xo8.NewScreen(),
		InMemoryKeyboard: xo8.NewInMemoryKeyboard(),
		Cpu:              nil,
		speaker:          xo8.NewSpeaker(),
		speedFactor:      hzToSpeedFactor(config.Speed),
		scale:            config.Scale,
		colors:           config.Colors,
	}

	app.Cpu = xo8.NewCpu(xo8.NewMemoryWithSize(config.MemorySize), app, app, app.speaker,
		xo8.WithSpeed(config.Speed),
		xo8.WithQuirks(config.Quirks),
		xo8.WithKeyMap(config.KeyMap),
	)

	app.winW = xo8.ExtendedWidth * app.scale
	app.winH = xo8.ExtendedHeight*app.scale + ToolbarHeight + MessageBarHeigh

	return app
}

// Run initializes the console and the UI loop
func (app *ConsoleApp) Run(autostart bool) {
	go func(cpu *xo8.Cpu) {
		slog.Info("starting CPU loop on pause")
		if err := cpu.Boot(); err != nil {
			app.showMessage(err.Error(), MessageError)
			slog.Error("Error booting CPU", slog.Any("error", err))
			return
		}
		if !(autostart && app.hasProgramLoaded()) {
			cpu.Stop()
		}
		if err := cpu.Loop(); err != nil {
			app.showMessage(err.Error(), MessageError)
			slog.Error("Error running CPU", slog.Any("error", err))
		}
	}(app.Cpu)

	rl.InitWindow(int32(app.winW), int32(app.winH), "xo8")
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	for !rl.WindowShouldClose() {
		rl.BeginDrawing()

		rl.ClearBackground(rl.Black)

		app.handleFileLoad()
		app.handleActions()
		app.handleKeyPress()
		app.updateCpuSpeed()

		// Sections get rendered from the bottom to the top
		app.drawMessageBar()
		app.drawScreen()
		app.drawToolbar()

		rl.EndDrawing()
	}
}

func (app *ConsoleApp) Load(path string) {
	if err := app.Cpu.LoadProgramFromFile(path); err != nil {
		slog.Error("Error loading program", slog.String("path", path), slog.Any("error", err))
		return
	}

	app.loadedProgramPath = path
	slog.Info("Program loaded", slog.String("path", path))
	app.showMessage(fmt.Sprintf("Program '%s' loaded", app.loadedProgramPath), MessageInfo)

	app.Cpu.Start()
}

func (app *ConsoleApp) handleFileLoad() {
	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		defer rl.UnloadDroppedFiles()

		slog.Info("Files were dropped", "files", strings.Join(files, ","))

		app.Load(files[0])
	}
}

func (app *ConsoleApp) hasProgramLoaded() bool {
	return len(app.loadedProgramPath) > 0
}

func (app *ConsoleApp) handleActions() {
	if app.startBtn {
		if app.hasProgramLoaded() {
			app.Cpu.Start()
			slog.Info("Starting the console")
		} else {
			app.showMessage("There is no program loaded", MessageError)
		}
	}
	if app.stopBtn {
		app.Cpu.Stop()
		slog.Info("Stopping the console")
	}
	if app.restBtn {
		app.Cpu.Reset()
		slog.Info("Resetting the program to the beginning")
	}
	if app.stepBtn {
		app.Cpu.SingleStep()
		slog.Info("Running a single cycle")
	}
}

func (app *ConsoleApp) updateCpuSpeed() {
	app.Cpu.SetSpeedInHz(speedFactorToHz(app.speedFactor))
}

const (
	MinSpeed = float32(xo8.MinSpeed/5) - 1
	MaxSpeed = float32(xo8.MaxSpeed/5) - 1
)

func (app *ConsoleApp) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), ToolbarHeight, rl.Gray)

	app.startBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*0, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_PLAY, "Start"),
	)
	app.stopBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*1, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_STOP, "Stop"),
	)
	app.stepBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*2, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_NEXT, "Step"),
	)
	app.restBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*3, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_ROTATE, "Reset"),
	)

	if app.Cpu.IsRunning() {
		gui.Label(
			rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*4, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
			"Running",
		)
	} else {
		gui.Label(
			rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*4, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
			"Stopped",
		)
	}

	gui.Label(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, 26, 50, 20),
		fmt.Sprintf("%d Hz", speedFactorToHz(app.speedFactor)),
	)

	if gui.Button(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150+50, 26, 50, 20),
		gui.IconText(gui.ICON_ROTATE, ""),
	) {
		app.speedFactor = hzToSpeedFactor(xo8.DefaultSpeed)
	}

	app.speedFactor = gui.Slider(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, ToolbarGap, 100, 20),
		"1 Hz", "700 Hz",
		app.speedFactor,
		MinSpeed,
		MaxSpeed,
	)
}

func (app *ConsoleApp) showMessage(msg string, mType MessageType) {
	app.lastMessage = msg
	switch mType {
	case MessageInfo:
		app.lastMessageColor = MessageBarInfoColor

	case MessageSuccess:
		app.lastMessageColor = MessageBarSuccessColor

	case MessageWarning:
		app.lastMessageColor = MessageBarWarningColor

	case MessageError:
		app.lastMessageColor = MessageBarErrorColor
	}
}

func (app *ConsoleApp) drawMessageBar() {
	rl.DrawRectangle(
		0,
		int32(app.winH)-MessageBarHeigh,
		int32(app.winW),
		MessageBarHeigh,
		MessageBarBgColor,
	)

	rl.DrawText(
		app.lastMessage,
		MessageBarGap,
		int32(app.winH)-MessageBarHeigh+MessageBarGap,
		16,
		app.lastMessageColor,
	)
}
