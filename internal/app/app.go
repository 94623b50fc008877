// Package app bootstraps the terminal client: gateway client, contact cache,
// backend listener and the Bubble Tea program.
package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smsgw/sms-terminal/internal/backend"
	"github.com/smsgw/sms-terminal/internal/cache"
	"github.com/smsgw/sms-terminal/internal/config"
	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/logging"
	"github.com/smsgw/sms-terminal/internal/ui"
)

const devicePollInterval = 30 * time.Second

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg config.Config) error {
	client := gateway.NewHTTPClient(cfg.Gateway.BaseURL, cfg.Gateway.Token)

	store, err := cache.Open(cfg.CacheFile)
	if err != nil {
		// The cache is an offline fallback; run without it rather than die.
		logging.Error(fmt.Errorf("open contact cache: %w", err))
		store = nil
	} else {
		defer store.Close()
	}

	var subscriber gateway.Subscriber
	if cfg.Gateway.Live {
		subscriber = gateway.NewWSSubscriber(cfg.Gateway.WSURL, cfg.Gateway.Token)
	}
	listener := backend.NewListener(subscriber, client, devicePollInterval)
	defer listener.Stop()

	start, err := startViewState(cfg.UI.StartView)
	if err != nil {
		return err
	}

	model := ui.NewModel(client, store, listener, start, cfg.UI.Theme, cfg.Logging.Verbose)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func startViewState(view config.StartView) (ui.ViewState, error) {
	switch view.Name {
	case config.ViewMenu, "":
		return ui.MainMenuState{}, nil
	case config.ViewPhonebook:
		return ui.PhonebookState{}, nil
	case config.ViewDevice:
		return ui.DeviceInfoState{}, nil
	case config.ViewMessages:
		return ui.MessagesState{Phone: view.Phone}, nil
	case config.ViewCompose:
		return ui.ComposeState{Phone: view.Phone}, nil
	default:
		return nil, fmt.Errorf("unknown start view %q", view.Name)
	}
}
