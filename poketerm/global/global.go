package global

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const LOG_FILE_NAME = "pokeduel"

var (
	TERM_WIDTH, TERM_HEIGHT, _ = term.GetSize(int(os.Stdout.Fd()))

	SelectKey = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	)
	MoveLeftKey = key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	)
	MoveRightKey = key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	)
	MoveDownKey = key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	)
	MoveUpKey = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	)

	DownTabKey = key.NewBinding(key.WithKeys(tea.KeyTab.String()), key.WithHelp("tab", "next panel"))
	UpTabKey   = key.NewBinding(key.WithKeys(tea.KeyShiftTab.String()), key.WithHelp("shift+tab", "previous panel"))

	BackKey = key.NewBinding(key.WithKeys(tea.KeyEsc.String()), key.WithHelp("esc", "back"))
	QuitKey = key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit"))
	HelpKey = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))

	Opt Config
	// ConfigPath is where the options menu saves Opt
	ConfigPath string

	logMu         sync.Mutex
	logWriter     io.Writer = io.Discard
	previousLevel zerolog.Level
)

// GlobalInit installs cfg as the active config and sets up logging.
// Logs always go to a rolling file in cfg.Logging.Dir, headless runs also log to stderr.
func GlobalInit(cfg Config, headless bool) error {
	level, err := cfg.Logging.ZerologLevel()
	if err != nil {
		return err
	}

	rollingWriter, err := NewRollingFileWriter(cfg.Logging.Dir, LOG_FILE_NAME)
	if err != nil {
		return err
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: rollingWriter, NoColor: true}
	if headless {
		writer = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr}, writer)
	}

	Opt = cfg
	setLogger(writer, level)

	log.Info().
		Str("log_file", rollingWriter.MainLogPath()).
		Str("level", level.String()).
		Bool("headless", headless).
		Msg("logging initialized")

	return nil
}

// setLogger points the global zerolog logger and the engine's logr logger at writer
func setLogger(writer io.Writer, level zerolog.Level) {
	logMu.Lock()
	defer logMu.Unlock()

	logWriter = writer
	log.Logger = zerolog.New(writer).With().Timestamp().Caller().Logger().Level(level)

	// logr V(1) is zerolog debug and V(2) is trace
	zerologr.SetMaxV(2)
	golurk.SetInternalLogger(zerologr.New(&log.Logger))
}

// Logger returns a logr logger writing through the global zerolog logger, for packages
// that only take logr
func Logger() logr.Logger {
	return zerologr.New(&log.Logger)
}

func StopLogging() {
	logMu.Lock()
	defer logMu.Unlock()

	previousLevel = log.Logger.GetLevel()
	log.Logger = zerolog.Nop()
	golurk.SetInternalLogger(logr.Discard())
}

func ContinueLogging() {
	logMu.Lock()
	writer := logWriter
	level := previousLevel
	logMu.Unlock()

	setLogger(writer, level)
}

func UpdateLogLevel(level zerolog.Level) {
	logMu.Lock()
	defer logMu.Unlock()

	log.Logger = log.Logger.Level(level)
}
