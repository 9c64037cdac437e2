package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pastforward/internal/session"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "List saved generation sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				sessions, err := store.ListSessions(cmd.Context(), ctx.userID())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(out, "No sessions found")
					return nil
				}

				rows := make([][]string, 0, len(sessions))
				for _, sess := range sessions {
					done, failed := 0, 0
					for _, rec := range sess.Items {
						switch rec.Status {
						case session.StatusDone:
							done++
						case session.StatusError:
							failed++
						}
					}
					rows = append(rows, []string{
						sess.ID,
						sess.CreatedAt.Local().Format(time.DateTime),
						strconv.Itoa(len(sess.SelectedEras)),
						strconv.Itoa(done),
						strconv.Itoa(failed),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Session", "Created", "Eras", "Done", "Failed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	sessionsCmd.AddCommand(newSessionsDeleteCommand(ctx))
	return sessionsCmd
}

func newSessionsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				removed, err := store.DeleteSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("session %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the items of a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				sess, err := store.GetSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session %s created %s from %s\n",
					sess.ID, sess.CreatedAt.Local().Format(time.DateTime), sess.SourceImage)
				fmt.Fprintln(out, renderTable(
					[]string{"Era", "Status", "Video", "Result"},
					buildItemRows(sess.SelectedEras, sess.Items, shouldColorize(out)),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
