package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/history"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/headless"
	"github.com/nathanieltooley/pokeduel/poketerm/views/mainmenu"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

type model struct {
	currentView tea.Model
}

func (m model) Init() tea.Cmd {
	return m.currentView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	newView, cmd := m.currentView.Update(msg)

	m.currentView = newView

	return m, cmd
}

func (m model) View() string {
	return m.currentView.View()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		fmt.Fprintln(os.Stderr, "pokeduel:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := global.NewFlagSet("pokeduel")
	if err := flags.Parse(args); err != nil {
		return err
	}

	configPath, _ := flags.GetString("config")
	isHeadless, _ := flags.GetBool("headless")

	cfg, err := global.LoadConfig(configPath, flags)
	if err != nil {
		return err
	}

	global.ConfigPath = configPath
	if global.ConfigPath == "" {
		global.ConfigPath = global.DefaultConfigLocation()
	}

	if err := global.GlobalInit(cfg, isHeadless); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d, err := dex.Load(ctx, dex.Embedded(), dex.WithLogger(global.Logger()))
	if err != nil {
		return fmt.Errorf("loading pokemon data: %w", err)
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path, history.WithLogger(global.Logger()))
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if isHeadless {
		runner := headless.Runner{Dex: d, Config: cfg, History: store}

		summary, err := runner.Run(ctx, cfg.BattleSeed())
		if err != nil {
			return err
		}

		return summary.Write(os.Stdout, cfg.Player.Name, cfg.Opponent.Name)
	}

	m := model{
		currentView: mainmenu.NewModel(mainmenu.Deps{Dex: d, History: store}),
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		log.Err(err).Msg("tui exited with an error")
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}
