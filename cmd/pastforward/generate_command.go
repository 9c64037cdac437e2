package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pastforward/internal/engine"
	"pastforward/internal/era"
	"pastforward/internal/gen"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var eraFlags []string

	cmd := &cobra.Command{
		Use:   "generate <image>",
		Short: "Generate era portraits from a photo",
		Long: "Generate runs a full batch: one portrait per selected decade, " +
			"processed concurrently, with every result recorded in a new session.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			selection := eraFlags
			if len(selection) == 0 {
				selection = cfg.Generation.DefaultEras
			}
			eras, err := era.ParseList(selection)
			if err != nil {
				return err
			}
			if len(eras) == 0 {
				eras = era.All()
			}

			source, sourceRef, err := loadSourceImage(args[0])
			if err != nil {
				return err
			}

			return ctx.withEngine(func(eng *engine.Engine, _ *gen.KeyAuthorizer) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Generating %d era portraits from %s\n", len(eras), sourceRef)

				result, err := eng.StartBatch(cmd.Context(), ctx.userID(), source, sourceRef, eras)
				if err != nil {
					return err
				}

				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderTable(
					[]string{"Era", "Status", "Video", "Result"},
					buildItemRows(eras, eng.Snapshot(), colorize),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintf(out, "Session %s: %d succeeded, %d failed in %s\n",
					result.SessionID, result.Succeeded, result.Failed, result.Duration.Round(time.Second))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&eraFlags, "eras", "e", nil, "Decades to generate (e.g. 1950s,1980s); defaults to the configured list")
	return cmd
}
