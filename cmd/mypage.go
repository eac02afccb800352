package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMypageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mypage",
		Short: "Your dashboard: activity, bias stats, watch time",
	}
	cmd.AddCommand(
		newMypageOverviewCmd(app),
		newMypageBiasCmd(app),
		newMypageWatchCmd(app),
	)
	return cmd
}

func newMypageOverviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show your profile and activity summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Guard.Require(ctx, "mypage overview"); err != nil {
				return err
			}

			profile, err := app.API.UserInfo(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%s (가입일 %s)\n", profile.Nickname, profile.JoinDate)
			if profile.Bio != "" {
				fmt.Println(profile.Bio)
			}
			fmt.Printf("팩트체크 %d  댓글 %d  좋아요 %d  팔로워 %d  팔로잉 %d\n",
				profile.Checks, profile.Comments, profile.Likes,
				profile.Followers, profile.Following)

			if len(profile.Bookmarks) > 0 {
				fmt.Println("북마크:")
				for _, b := range profile.Bookmarks {
					fmt.Printf("  %s (%s)\n", b.Title, b.URL)
				}
			}
			if len(profile.Sessions) > 0 {
				fmt.Println("활성 세션:")
				for _, s := range profile.Sessions {
					fmt.Printf("  %s (마지막 활동 %s)\n", s.Device, s.LastActive)
				}
			}
			return nil
		},
	}
}

func newMypageBiasCmd(app *App) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "bias",
		Short: "Show your viewing-bias distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Guard.Require(ctx, "mypage bias"); err != nil {
				return err
			}

			switch period {
			case "7", "30", "90", "180", "Y":
			default:
				return fmt.Errorf("invalid period %q (want 7, 30, 90, 180 or Y)", period)
			}

			slices, err := app.API.BiasStats(ctx, period)
			if err != nil {
				return err
			}
			for _, s := range slices {
				fmt.Printf("%-4s %3d%% %s\n", s.Name, s.Value, bar(s.Value, 2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "30", "period: 7, 30, 90, 180 or Y")
	return cmd
}

func newMypageWatchCmd(app *App) *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show your watch-time chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Guard.Require(ctx, "mypage watch"); err != nil {
				return err
			}

			switch tab {
			case "day", "week", "month":
			default:
				return fmt.Errorf("invalid tab %q (want day, week or month)", tab)
			}

			points, err := app.API.WatchTime(ctx, tab)
			if err != nil {
				return err
			}
			for _, p := range points {
				fmt.Printf("%-5s %4d min %s\n", p.Name, p.Min, bar(p.Min, 10))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "day", "tab: day, week or month")
	return cmd
}

// bar renders one fixed-scale chart bar. Values the backend should never
// send, like negatives, render empty instead of panicking strings.Repeat.
func bar(value, perBlock int) string {
	if value < 0 {
		value = 0
	}
	return strings.Repeat("█", value/perBlock)
}

func newProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <nickname>",
		Short: "Show another user's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := app.API.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(profile.Nickname)
			if profile.Bio != "" {
				fmt.Println(profile.Bio)
			}
			fmt.Printf("팩트체크 %d  댓글 %d  좋아요 %d\n", profile.Checks, profile.Comments, profile.Likes)
			return nil
		},
	}
}
