package root

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"questpet/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.start(ctx); err != nil {
				return err
			}

			if !a.cfg.LogDev {
				gin.SetMode(gin.ReleaseMode)
			}
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}
			return httpapi.NewServer(a.svc, a.db, a.log.Named("http")).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default QP_HTTP_ADDR)")

	return cmd
}
