package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatterm/chatterm/pkg/config"
	"github.com/chatterm/chatterm/pkg/store"
	"github.com/chatterm/chatterm/pkg/transport"
)

func newSessionsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List chat sessions on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			client, err := transport.New(cfg.ResolveServerURL(flags.serverURL), store.New())
			if err != nil {
				return err
			}

			sessions, err := client.Sessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions")
				return nil
			}
			for _, s := range sessions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s  %s\n", s.ID, s.Title, formatSessionTime(s.LastMessageAt))
			}
			return nil
		},
	}
}

func formatSessionTime(stamp string) string {
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return stamp
	}
	return t.Local().Format("2006-01-02 15:04")
}
