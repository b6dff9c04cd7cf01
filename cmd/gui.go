package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/soocke/cube-scanner-go/app"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the scanner window (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI(cmd.Context())
	},
}

func runGUI(ctx context.Context) error {
	hist, err := openHistory(ctx)
	if err != nil {
		// history is optional in the window; scanning works without it
		logger.Warn("solve history disabled", "error", err)
		hist = nil
	}
	return app.Run(ctx, cfg, cfgPath, logger, hist)
}

func init() {
	rootCmd.AddCommand(guiCmd)
}
