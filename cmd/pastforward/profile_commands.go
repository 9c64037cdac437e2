package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pastforward/internal/session"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow(cmd, ctx)
		},
	}

	profileCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow(cmd, ctx)
		},
	})
	profileCmd.AddCommand(newProfileSetCommand(ctx))

	return profileCmd
}

// runProfileShow bootstraps a default profile on first use so the display
// name is always available to later commands.
func runProfileShow(cmd *cobra.Command, ctx *commandContext) error {
	return ctx.withStore(func(store *session.Store) error {
		userID := ctx.userID()
		profile, err := store.LoadProfile(cmd.Context(), userID)
		if errors.Is(err, session.ErrNotFound) {
			profile = &session.UserProfile{
				UserID:      userID,
				DisplayName: userID,
				UpdatedAt:   time.Now().UTC(),
			}
			if err := store.SaveProfile(cmd.Context(), profile); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User:         %s\n", profile.UserID)
		fmt.Fprintf(out, "Display name: %s\n", profile.DisplayName)
		if profile.AvatarRef != "" {
			fmt.Fprintf(out, "Avatar:       %s\n", profile.AvatarRef)
		}
		fmt.Fprintf(out, "Updated:      %s\n", profile.UpdatedAt.Local().Format(time.DateTime))
		return nil
	})
}

func newProfileSetCommand(ctx *commandContext) *cobra.Command {
	var displayName string
	var avatarRef string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(displayName)
			avatar := strings.TrimSpace(avatarRef)
			if name == "" && avatar == "" {
				return fmt.Errorf("nothing to update (use --name or --avatar)")
			}
			return ctx.withStore(func(store *session.Store) error {
				userID := ctx.userID()
				profile, err := store.LoadProfile(cmd.Context(), userID)
				if errors.Is(err, session.ErrNotFound) {
					profile = &session.UserProfile{UserID: userID, DisplayName: userID}
				} else if err != nil {
					return err
				}
				if name != "" {
					profile.DisplayName = name
				}
				if avatar != "" {
					profile.AvatarRef = avatar
				}
				profile.UpdatedAt = time.Now().UTC()
				if err := store.SaveProfile(cmd.Context(), profile); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s\n", userID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "Display name")
	cmd.Flags().StringVar(&avatarRef, "avatar", "", "Path or URL of the avatar image")
	return cmd
}
