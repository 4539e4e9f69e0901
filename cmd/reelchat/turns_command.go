package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reelchat/internal/turnlog"
)

func newTurnsCommand(configFlag *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "turns",
		Short: "Show recently served conversation turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			if !cfg.TurnLog.Enabled {
				return errors.New("turn log is disabled; enable [turn_log] in the configuration")
			}

			store, err := turnlog.Open(cfg.TurnLog.Path)
			if err != nil {
				return fmt.Errorf("open turn log: %w", err)
			}
			defer func() {
				_ = store.Close()
			}()

			turns, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read turns: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(turns) == 0 {
				fmt.Fprintln(out, "No turns recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(turns))
			for _, turn := range turns {
				rows = append(rows, []string{
					strconv.FormatInt(turn.ID, 10),
					turn.CreatedAt.Local().Format(time.DateTime),
					turn.Intent,
					strconv.Itoa(turn.ResultCount),
					turn.Duration.Truncate(time.Millisecond).String(),
					turn.QueryJSON,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "When", "Intent", "Results", "Duration", "Query"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of turns to display")
	return cmd
}
