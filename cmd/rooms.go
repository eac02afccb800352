package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"newsbalance/internal/api"
	"newsbalance/internal/store"
	"newsbalance/internal/validate"
)

func newRoomsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Browse and manage debate rooms",
	}
	cmd.AddCommand(
		newRoomsListCmd(app),
		newRoomsHotCmd(app),
		newRoomsSearchCmd(app),
		newRoomsCreateCmd(app),
		newRoomsDeleteCmd(app),
		newRoomsMineCmd(app),
	)
	return cmd
}

func newRoomsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all debate rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := app.API.Rooms(cmd.Context())
			if err != nil {
				return err
			}
			printRooms(rooms)
			return nil
		},
	}
}

func newRoomsHotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hot",
		Short: "List the currently popular rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := app.API.HotRooms(cmd.Context())
			if err != nil {
				return err
			}
			printRooms(rooms)
			return nil
		},
	}
}

func newRoomsSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search rooms by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := validate.Sanitize(strings.TrimSpace(args[0]), 50)
			if query == "" {
				fmt.Println(app.T.T("videos.invalidQuery"))
				return nil
			}
			rooms, err := app.API.SearchRooms(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				fmt.Println(app.T.T("videos.noResults"))
				return nil
			}
			printRooms(rooms)
			return nil
		},
	}
}

func newRoomsCreateCmd(app *App) *cobra.Command {
	var keywords []string

	cmd := &cobra.Command{
		Use:   "create <title> <topic>",
		Short: "Create a debate room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Guard.Require(ctx, "rooms create"); err != nil {
				return err
			}

			title := validate.Sanitize(strings.TrimSpace(args[0]), 50)
			topic := validate.Sanitize(strings.TrimSpace(args[1]), 200)

			cleaned := make([]string, 0, len(keywords))
			for _, k := range keywords {
				if k = validate.Sanitize(strings.TrimSpace(k), 50); k != "" {
					cleaned = append(cleaned, k)
				}
			}
			if len(cleaned) > 5 {
				cleaned = cleaned[:5]
			}

			if errs := validate.Room(title, topic, cleaned); !errs.Valid() {
				printFieldErrors(app, errs)
				return fmt.Errorf("invalid input")
			}

			room, err := app.API.CreateRoom(ctx, title, topic, cleaned)
			if err != nil {
				return err
			}
			fmt.Println(app.T.T("room.created"))
			fmt.Printf("  #%d %s\n", room.ID, room.Title)

			app.refreshMyRooms(ctx)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "room keyword (repeatable, max 5)")
	return cmd
}

func newRoomsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a room you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Guard.Require(ctx, "rooms delete"); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid room id: %q", args[0])
			}
			if err := app.API.DeleteRoom(ctx, id); err != nil {
				return err
			}
			fmt.Println(app.T.T("room.deleted"))
			app.refreshMyRooms(ctx)
			return nil
		},
	}
}

func newRoomsMineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your rooms (from the local cache)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := app.Store.MyRooms()
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				fmt.Println("(no cached rooms)")
				return nil
			}
			for _, room := range rooms {
				fmt.Printf("#%-5d %s (cached %s)\n", room.ID, room.Title, room.CachedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// refreshMyRooms rebuilds the local my-rooms cache from the room directory.
// Best effort; a failure only means a stale cache.
func (a *App) refreshMyRooms(ctx context.Context) {
	nickname := a.Session.Nickname()
	if nickname == "" {
		return
	}
	rooms, err := a.API.Rooms(ctx)
	if err != nil {
		a.Logger.Warn("my-rooms refresh failed", "error", err)
		return
	}
	var mine []store.MyRoom
	for _, room := range rooms {
		if room.Creator == nickname {
			mine = append(mine, store.MyRoom{ID: room.ID, Title: room.Title})
		}
	}
	if err := a.Store.ReplaceMyRooms(mine); err != nil {
		a.Logger.Warn("my-rooms cache write failed", "error", err)
	}
}

func printRooms(rooms []api.Room) {
	for _, room := range rooms {
		fmt.Printf("#%-5d %s\n", room.ID, room.Title)
		fmt.Printf("       %s\n", room.Description)
		fmt.Printf("       💬 %d  👀 %d  📅 %s  생성자: %s\n",
			room.CurrentParticipants, room.TotalVisits, room.CreatedAt, room.Creator)
		if len(room.Keywords) > 0 {
			fmt.Printf("       #%s\n", strings.Join(room.Keywords, " #"))
		}
	}
}
