package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelchat/internal/catalog"
)

func newGenresCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the movie and TV genre taxonomies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			client, err := catalog.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
			if err != nil {
				return fmt.Errorf("build catalog client: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, kind := range []catalog.MediaKind{catalog.MediaKindMovie, catalog.MediaKindTV} {
				listing, err := client.GenreList(cmd.Context(), kind)
				if err != nil {
					return fmt.Errorf("fetch %s genres: %w", kind, err)
				}
				rows := make([][]string, 0, len(listing))
				for _, genre := range listing {
					rows = append(rows, []string{strconv.FormatInt(genre.ID, 10), genre.Name})
				}
				fmt.Fprintf(out, "%s genres\n", kind)
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name"},
					rows,
					[]columnAlignment{alignRight, alignLeft},
				))
			}
			return nil
		},
	}
}
