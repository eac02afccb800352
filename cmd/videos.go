package cmd

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"newsbalance/internal/api"
	"newsbalance/internal/bias"
	"newsbalance/internal/validate"
	"newsbalance/internal/youtube"
)

func newVideosCmd(app *App) *cobra.Command {
	var (
		direct bool
		oldest bool
	)

	cmd := &cobra.Command{
		Use:   "videos <query>",
		Short: "Search bias-labeled news videos",
		Long: `Searches news videos and prints them in three bias columns
(진보 / 중도 / 보수). By default the NewsBalance backend scores the
results; --direct queries the YouTube Data API with your own key and
falls back to the title heuristic.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// An empty query is a no-op, not an error.
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return nil
			}
			query := validate.Sanitize(strings.TrimSpace(args[0]), 100)
			if query == "" {
				fmt.Println(app.T.T("videos.invalidQuery"))
				return nil
			}

			var (
				videos []api.Video
				err    error
			)
			if direct {
				yt, ytErr := youtube.New(ctx, app.Config.YouTube.APIKey)
				if ytErr != nil {
					return ytErr
				}
				videos, err = yt.Search(ctx, query)
			} else {
				videos, err = app.API.SearchTitles(ctx, query)
			}
			if err != nil {
				return err
			}

			printVideoColumns(app, videos, oldest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&direct, "direct", false, "query YouTube directly with your own API key")
	cmd.Flags().BoolVar(&oldest, "oldest", false, "sort oldest first instead of newest")
	return cmd
}

func printVideoColumns(app *App, videos []api.Video, oldest bool) {
	buckets := map[bias.Label][]api.Video{}
	for _, v := range videos {
		label := bias.FromScore(v.BiasScore)
		buckets[label] = append(buckets[label], v)
	}

	for _, label := range []bias.Label{bias.Left, bias.Center, bias.Right} {
		group := buckets[label]
		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i].PublishedAt, group[j].PublishedAt
			if a == nil || b == nil {
				return false
			}
			if oldest {
				return *a < *b
			}
			return *a > *b
		})

		fmt.Printf("== %s ==\n", label.DisplayName())
		if len(group) == 0 {
			fmt.Printf("  %s\n", app.T.T("videos.noResults"))
			continue
		}
		for _, v := range group {
			fmt.Printf("  [%+.2f] %s\n", v.BiasScore, v.Title)
			fmt.Printf("          %s\n", v.VideoURL)
			if id := extractVideoID(v.VideoURL); id != "" {
				fmt.Printf("          %s\n", youtube.Thumbnail(id))
			}
		}
	}
}

// extractVideoID pulls the v parameter out of a YouTube watch URL.
func extractVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}
