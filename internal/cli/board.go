package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"signal-desk/internal/digest"
	"signal-desk/internal/errors"
	"signal-desk/internal/logging"
	"signal-desk/internal/models"
	"signal-desk/internal/store"
	"signal-desk/pkg/utils"
)

func newTopCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the ranked board across all scans",
		Long: `Fetches every configured scan feed, ranks each scan by score, percent
change and volume, and prints the combined board.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cycle := app.Runner.RunCycle(cmd.Context())

			if output.IsJSON() {
				return output.JSON(cycle)
			}

			printFeedWarnings(output, cycle.Statuses)

			if len(cycle.Rows) == 0 {
				output.Warning("No signals. Feeds may be empty or unreachable.")
				return nil
			}

			table := NewTable(output, "SCAN", "SYMBOL", "TYPE", "SCORE", "PRICE", "Δ%", "VOL", "DIR", "VWAP", "POS", "MOMO")
			for _, r := range cycle.Rows {
				table.AddRow(
					r.Scan,
					r.Symbol,
					r.Type,
					digest.Num(r.Score),
					digest.Num(r.Price),
					output.Pct(r.Pct),
					utils.HumanVolumePtr(r.Vol),
					output.Direction(r.Dir),
					digest.Num(r.VWAP),
					r.Pos,
					digest.Num(r.Momo),
				)
			}
			table.Render()
			output.Dim("%d rows", len(cycle.Rows))
			return nil
		},
	}
	return cmd
}

func newOptionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show option contract suggestions from the scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cycle := app.Runner.RunCycle(cmd.Context())

			if output.IsJSON() {
				return output.JSON(cycle.Options)
			}

			if len(cycle.Options) == 0 {
				output.Dim("No option suggestions in current scans.")
				return nil
			}

			table := NewTable(output, "SCAN", "SYMBOL", "TYPE", "CONTRACT", "STRIKE", "EXP", "MID", "BUY", "TARGET", "STOP")
			for _, o := range cycle.Options {
				buy := ""
				if o.BuyMin != nil || o.BuyMax != nil {
					buy = digest.Num(o.BuyMin) + "-" + digest.Num(o.BuyMax)
				}
				table.AddRow(
					o.Scan,
					o.Symbol,
					o.Type,
					o.OptionsTicker,
					digest.Num(o.Strike),
					o.Expiration,
					digest.Num(o.Mid),
					buy,
					digest.Num(o.Target),
					digest.Num(o.Stop),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newScansCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scans",
		Short: "Show the scan schedule and configured feeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			scans := utils.NextScanTimes(time.Now())

			if output.IsJSON() {
				return output.JSON(scans)
			}

			output.Bold("Scan Schedule (ET)")
			table := NewTable(output, "SCAN", "TIME (ET)", "COUNTDOWN")
			for _, s := range scans {
				table.AddRow(s.Label, s.At, s.Until)
			}
			table.Render()
			output.Println()

			output.Bold("Feeds")
			for _, src := range app.Config.ScanSources() {
				output.Printf("  %-14s %s\n", src.Tag, src.Source)
			}
			return nil
		},
	}
}

func newPushCmd(app *App) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the top picks digest to configured channels",
		Long: `Builds a digest of the top ranked rows and sends it to every enabled
notification channel. Every attempt is recorded in the push journal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cycle := app.Runner.RunCycle(cmd.Context())
			printFeedWarnings(output, cycle.Statuses)

			text, err := digest.Build(cycle.Rows, topN)
			if errors.Is(err, errors.ErrEmptyDigest) {
				output.Warning("Nothing to push: all feeds are empty.")
				return nil
			}
			if err != nil {
				return err
			}

			rows := topN
			if len(cycle.Rows) < rows {
				rows = len(cycle.Rows)
			}

			sendErr := app.Notifier.Send(cmd.Context(), text)
			journalPush(app, cmd, rows, len(text), sendErr)

			if sendErr != nil {
				output.Error("Push failed: %v", sendErr)
				return sendErr
			}

			if output.IsJSON() {
				return output.JSON(map[string]any{"rows": rows, "chars": len(text)})
			}
			output.Success("✓ Pushed %d rows (%d chars)", rows, len(text))
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", app.Config.Display.PushCount, "number of rows to include")
	return cmd
}

func newJournalCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent push attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				return fmt.Errorf("push journal unavailable: %w", errors.ErrDatabaseError)
			}

			pushes, err := app.Journal.ListPushes(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(pushes)
			}

			if len(pushes) == 0 {
				output.Dim("No pushes recorded yet.")
				return nil
			}

			table := NewTable(output, "TIME", "CHANNEL", "ROWS", "CHARS", "STATUS")
			for _, p := range pushes {
				status := output.Green("ok")
				if !p.OK {
					status = output.Red(p.Error)
				}
				table.AddRow(
					p.Timestamp.Format("2006-01-02 15:04:05"),
					p.Channel,
					fmt.Sprintf("%d", p.Rows),
					fmt.Sprintf("%d", p.Chars),
					status,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of records to show")
	return cmd
}

func printFeedWarnings(output *Output, statuses []models.SourceStatus) {
	for _, st := range statuses {
		if !st.OK {
			output.Warning("⚠ %s feed unavailable: %s", st.Tag, st.Error)
		}
	}
}

func journalPush(app *App, cmd *cobra.Command, rows, chars int, sendErr error) {
	logging.LogPush(app.Logger, "all", rows, sendErr)
	if app.Journal == nil {
		return
	}
	rec := &store.PushRecord{
		Timestamp: time.Now(),
		Channel:   "all",
		Rows:      rows,
		Chars:     chars,
		OK:        sendErr == nil,
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}
	if err := app.Journal.LogPush(cmd.Context(), rec); err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to journal push")
	}
}
