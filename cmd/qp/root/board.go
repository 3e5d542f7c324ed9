package root

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"questpet/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive quest board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.start(ctx); err != nil {
				return err
			}

			return tui.RunBoard(ctx, a.svc, cmd.OutOrStdout())
		},
	}

	return cmd
}
