package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reelchat/internal/catalog"
	"reelchat/internal/services/llm"
)

func newCheckCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify connectivity to the catalog and model providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(configFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := false

			client, err := catalog.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
			if err != nil {
				return fmt.Errorf("build catalog client: %w", err)
			}
			if _, err := client.GenreList(cmd.Context(), catalog.MediaKindMovie); err != nil {
				failed = true
				fmt.Fprintf(out, "catalog: FAILED (%v)\n", err)
			} else {
				fmt.Fprintln(out, "catalog: ok")
			}

			chat := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				Referer:        cfg.LLM.Referer,
				Title:          cfg.LLM.Title,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})
			if err := chat.HealthCheck(cmd.Context()); err != nil {
				failed = true
				fmt.Fprintf(out, "llm: FAILED (%v)\n", err)
			} else {
				fmt.Fprintln(out, "llm: ok")
			}

			if failed {
				return errors.New("one or more provider checks failed")
			}
			return nil
		},
	}
}
