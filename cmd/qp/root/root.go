package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"questpet/internal/ui"
)

const Version = "0.1.0"

var envFile string

var rootCmd = &cobra.Command{
	Use:           "qp",
	Short:         "Questpet: quests, coins and a companion to keep alive",
	Long:          "Questpet is a single-user task manager where finishing quests earns coins and levels up your companion, and failing them can kill it.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file with QP_* settings")

	rootCmd.AddCommand(
		newBoardCmd(),
		newServeCmd(),
		newRulesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
