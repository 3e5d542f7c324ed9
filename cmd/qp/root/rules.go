package root

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"questpet/internal/engine"
	"questpet/internal/ui"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show coin rewards, penalties and the character shop",
		RunE: func(cmd *cobra.Command, args []string) error {
			printRules(cmd.OutOrStdout())
			return nil
		},
	}

	return cmd
}

func printRules(out io.Writer) {
	fmt.Fprintln(out, ui.Heading(ui.IconCoin, "Quest rewards"))
	for _, typ := range engine.TaskTypes {
		repeat := ui.Muted.Render("one-off")
		if engine.IsRecurringType(typ) {
			repeat = ui.Muted.Render(fmt.Sprintf("every %d day(s)", engine.RecurringPeriodDays(typ)))
		}
		fmt.Fprintf(out, "- %s %s: %s / %s %s\n",
			ui.TypeIcon(typ),
			ui.Key.Render(string(typ)),
			ui.Good.Render(fmt.Sprintf("+%d", engine.CoinRewardFor(typ))),
			ui.Bad.Render(fmt.Sprintf("-%d", engine.CoinPenaltyFor(typ))),
			repeat,
		)
	}
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render(ui.IconPet+" Companion"))
	fmt.Fprintln(out, ui.LabelValue("Starting coins", engine.DefaultStartingCoins))
	fmt.Fprintln(out, ui.LabelValue("Level up", fmt.Sprintf("at level x %d XP; a completion earns XP equal to its coins", engine.LevelXPStep)))
	fmt.Fprintln(out, "- Failing a quest below zero coins kills your companion unless you completed one today.")
	fmt.Fprintln(out, "- Completing any quest revives it.")
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render(ui.IconShop+" Shop"))
	for _, c := range engine.DefaultRoster() {
		price := ui.Coins(c.Price)
		if c.IsFree {
			price = ui.Good.Render("free")
		}
		fmt.Fprintf(out, "- %s %s\n", c.Name, price)
	}
}
