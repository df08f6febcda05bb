package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/weiawesome/room-lobby/internal/service"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/internal/view"
)

var skipConfirm bool

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List and manage rooms without the interactive UI",
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms in creation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		sess := a.session()
		sess.Open(cmd.Context())
		snap := sess.Snapshot()

		out := cmd.OutOrStdout()
		if snap.Placeholder != "" {
			fmt.Fprintln(out, snap.Placeholder)
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCREATOR\tCREATED\tACTIONS")
		for _, card := range snap.Cards {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", card.Row.ID, card.Row.Name, card.Row.Creator, card.Row.CreatedAt, actions(card.Row))
		}
		return tw.Flush()
	},
}

var roomsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a room owned by the acting identity",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		console := service.NewConsole(cmd.InOrStdin(), cmd.ErrOrStderr())
		sess := a.session()
		sess.Open(cmd.Context())

		room, err := sess.Create(cmd.Context(), strings.Join(args, " "), console)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), room.ID)
		return nil
	},
}

var roomsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a room you created",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		console := service.NewConsole(cmd.InOrStdin(), cmd.ErrOrStderr())
		sess := a.session()
		sess.Open(cmd.Context())

		roomID := args[0]
		if err := sess.Edit(roomID); err != nil {
			return notApplied(err)
		}
		renamed, err := sess.Save(cmd.Context(), roomID, strings.Join(args[1:], " "), console)
		if err != nil {
			return err
		}
		if !renamed {
			return errors.New("room was not renamed")
		}
		return nil
	},
}

var roomsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a room you created",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		var prompter service.Prompter = service.NewConsole(cmd.InOrStdin(), cmd.ErrOrStderr())
		if skipConfirm {
			prompter = &service.Recorder{Answer: true}
		}
		sess := a.session()
		sess.Open(cmd.Context())

		deleted, err := sess.Delete(cmd.Context(), args[0], prompter)
		if err != nil {
			if errors.Is(err, service.ErrNotConfirmed) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Deletion cancelled.")
				return nil
			}
			return notApplied(err)
		}
		if !deleted {
			return errors.New("room was not deleted")
		}
		return nil
	},
}

var roomsJoinCmd = &cobra.Command{
	Use:   "join <id>",
	Short: "Join a room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		sess := a.session()
		sess.Open(cmd.Context())

		_, err = sess.Join(cmd.Context(), args[0], service.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
		return err
	},
}

func init() {
	roomsDeleteCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "delete without asking")
	roomsCmd.AddCommand(roomsListCmd, roomsCreateCmd, roomsRenameCmd, roomsDeleteCmd, roomsJoinCmd)
}

func actions(row view.Row) string {
	var out []string
	if row.CanJoin {
		out = append(out, "join")
	}
	if row.CanEdit {
		out = append(out, "edit")
	}
	if row.CanDelete {
		out = append(out, "delete")
	}
	return strings.Join(out, ",")
}

// notApplied turns the session's card errors into CLI wording.
func notApplied(err error) error {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return errors.New("room not found")
	case errors.Is(err, view.ErrNotPermitted):
		return errors.New("only the room's creator can do that")
	case errors.Is(err, store.ErrEmptyName):
		return errors.New(service.MsgEmptyName)
	default:
		return err
	}
}
