package main

import (
	"fmt"

	"github.com/phrazzld/skillpath-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Make a one-off guidance request through the gateway",
	}

	advice := &cobra.Command{
		Use:   "advice",
		Short: "Get tactical advice for reaching a goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, _ := cmd.Flags().GetString("goal")
			level, _ := cmd.Flags().GetString("level")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log := logger.New(cmd.ErrOrStderr(), cfg.Server.LogLevel)
			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.cleanup()

			text, err := app.guide.Advice(cmd.Context(), goal, level)
			if err != nil {
				return fmt.Errorf("advice request failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	advice.Flags().String("goal", "", "what you want to achieve")
	advice.Flags().String("level", "", "your current level")
	_ = advice.MarkFlagRequired("goal")
	_ = advice.MarkFlagRequired("level")

	cmd.AddCommand(advice)
	return cmd
}
