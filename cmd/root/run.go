package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"

	"github.com/chatterm/chatterm/pkg/config"
	"github.com/chatterm/chatterm/pkg/history"
	"github.com/chatterm/chatterm/pkg/statestore"
	"github.com/chatterm/chatterm/pkg/store"
	"github.com/chatterm/chatterm/pkg/transport"
	"github.com/chatterm/chatterm/pkg/tui"
	"github.com/chatterm/chatterm/pkg/tui/messages"
)

// runChat starts the interactive chat UI. It is the root command.
func runChat(ctx context.Context, flags *rootFlags) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return errors.New("chatterm requires an interactive terminal")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	serverURL := cfg.ResolveServerURL(flags.serverURL)

	// Persistence is best effort. Without it the client still works,
	// sessions just won't survive restarts.
	var storeOpts []store.Option
	states, err := statestore.New()
	if err != nil {
		slog.Warn("Failed to open state store, sessions won't persist", "error", err)
	} else {
		defer states.Close()
		storeOpts = append(storeOpts, store.WithPersister(states))
	}

	st := store.New(storeOpts...)
	if states != nil {
		sessions, currentID, err := states.Load(ctx)
		if err != nil {
			slog.Warn("Failed to load persisted sessions", "error", err)
		} else {
			st.Hydrate(sessions, currentID)
		}
	}

	var p *tea.Program
	client, err := transport.New(serverURL, st,
		transport.WithMaxReconnects(cfg.MaxReconnects),
		transport.WithNotify(func(ev transport.Event) {
			p.Send(messages.TransportEventMsg{Event: ev})
		}),
	)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	hist, err := history.New()
	if err != nil {
		slog.Warn("Failed to open input history", "error", err)
	}

	m := tui.New(st, client, hist)

	p = tea.NewProgram(m,
		tea.WithContext(ctx),
	)

	// Store mutations happen on transport goroutines too; funnel them
	// into the Bubble Tea loop as a single message type.
	unsubscribe := st.Subscribe(func() {
		p.Send(messages.StoreChangedMsg{})
	})
	defer unsubscribe()

	_, err = p.Run()
	return err
}
