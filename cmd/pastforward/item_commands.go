package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pastforward/internal/engine"
	"pastforward/internal/era"
	"pastforward/internal/gen"
	"pastforward/internal/session"
)

func newRegenerateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <session-id> <era>",
		Short: "Regenerate one era portrait in a saved session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := era.Parse(args[1])
			if !ok {
				return fmt.Errorf("unknown era %q", args[1])
			}
			return ctx.withEngine(func(eng *engine.Engine, _ *gen.KeyAuthorizer) error {
				if _, err := eng.Load(cmd.Context(), args[0]); err != nil {
					return err
				}
				rec, err := eng.Regenerate(cmd.Context(), key)
				if err != nil {
					return err
				}
				printItemResult(cmd.OutOrStdout(), key, rec)
				return nil
			})
		},
	}
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <session-id> <era> <instruction>",
		Short: "Edit one era portrait with a freeform instruction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := era.Parse(args[1])
			if !ok {
				return fmt.Errorf("unknown era %q", args[1])
			}
			return ctx.withEngine(func(eng *engine.Engine, _ *gen.KeyAuthorizer) error {
				if _, err := eng.Load(cmd.Context(), args[0]); err != nil {
					return err
				}
				rec, err := eng.Edit(cmd.Context(), key, args[2])
				if err != nil {
					return err
				}
				printItemResult(cmd.OutOrStdout(), key, rec)
				return nil
			})
		},
	}
}

func newAnimateCommand(ctx *commandContext) *cobra.Command {
	var aspectFlag string
	var confirmKey bool

	cmd := &cobra.Command{
		Use:   "animate <session-id> <era>",
		Short: "Generate a short video from a finished era portrait",
		Long: "Animate turns a finished portrait into a short clip. Video generation " +
			"bills against your own API key, so the first request needs --confirm-key.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := era.Parse(args[1])
			if !ok {
				return fmt.Errorf("unknown era %q", args[1])
			}
			aspect := gen.AspectRatio(aspectFlag)
			if !aspect.Valid() {
				return fmt.Errorf("invalid aspect ratio %q (use %s or %s)", aspectFlag, gen.AspectPortrait, gen.AspectLandscape)
			}
			return ctx.withEngine(func(eng *engine.Engine, auth *gen.KeyAuthorizer) error {
				if _, err := eng.Load(cmd.Context(), args[0]); err != nil {
					return err
				}
				if confirmKey {
					auth.Confirm()
				}
				rec, err := eng.Animate(cmd.Context(), key, aspect)
				if err != nil {
					if errors.Is(err, engine.ErrAuthorizationRequired) {
						return fmt.Errorf("video generation uses your own API key; rerun with --confirm-key to proceed")
					}
					return err
				}
				out := cmd.OutOrStdout()
				if rec.VideoStatus == session.FeatureDone {
					fmt.Fprintf(out, "%s video ready: %s\n", key, rec.VideoRef)
				} else {
					fmt.Fprintf(out, "%s video failed: %s\n", key, rec.ErrorMessage)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&aspectFlag, "aspect", string(gen.AspectPortrait), "Video aspect ratio (9:16 or 16:9)")
	cmd.Flags().BoolVar(&confirmKey, "confirm-key", false, "Confirm that video generation may bill the configured API key")
	return cmd
}

func newNarrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "narrate <session-id> <era>",
		Short: "Play a spoken description of an era",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := era.Parse(args[1])
			if !ok {
				return fmt.Errorf("unknown era %q", args[1])
			}
			return ctx.withEngine(func(eng *engine.Engine, _ *gen.KeyAuthorizer) error {
				if _, err := eng.Load(cmd.Context(), args[0]); err != nil {
					return err
				}
				rec, err := eng.Narrate(cmd.Context(), key)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if rec.AudioStatus == session.FeatureDone {
					fmt.Fprintf(out, "Narration for the %s played\n", key)
				} else {
					fmt.Fprintf(out, "Narration for the %s failed: %s\n", key, rec.ErrorMessage)
				}
				return nil
			})
		},
	}
}

func printItemResult(out io.Writer, key era.Key, rec session.ItemRecord) {
	if rec.Status == session.StatusDone {
		fmt.Fprintf(out, "%s portrait ready: %s\n", key, rec.ImageRef)
		return
	}
	fmt.Fprintf(out, "%s portrait failed: %s\n", key, rec.ErrorMessage)
}
