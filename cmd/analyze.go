package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newsbalance/internal/youtube"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var transcript bool

	cmd := &cobra.Command{
		Use:   "analyze <url-or-video-id>",
		Short: "Analyze an article URL or a video transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target := strings.TrimSpace(args[0])

			if transcript {
				analysis, err := app.API.AnalyzeTranscript(ctx, target)
				if err != nil {
					return err
				}
				fmt.Printf("감정: %s\n", analysis.Sentiment)
				fmt.Printf("성향: %s\n", analysis.Bias)
				fmt.Printf("키워드: %s\n", strings.Join(analysis.Keywords, ", "))
				fmt.Printf("요약: %s\n", analysis.Summary)
				return nil
			}

			result, err := app.API.AnalyzeURL(ctx, target)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&transcript, "transcript", false, "treat the argument as a video ID and analyze its transcript")
	return cmd
}

func newVideoInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "video <video-id>",
		Short: "Show metadata and summary sentences for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			videoID := strings.TrimSpace(args[0])
			videoURL := "https://www.youtube.com/watch?v=" + videoID

			if app.Config.YouTube.APIKey != "" {
				yt, err := youtube.New(ctx, app.Config.YouTube.APIKey)
				if err == nil {
					if stats, err := yt.VideoStats(ctx, videoID); err == nil {
						fmt.Printf("게시일: %s\n", stats.PublishedAt)
						fmt.Printf("조회수: %d  좋아요: %d  댓글: %d\n",
							stats.ViewCount, stats.LikeCount, stats.CommentCount)
					}
				}
			}

			sentences, err := app.API.Summaries(ctx, videoURL)
			if err != nil {
				return err
			}
			for _, s := range sentences {
				fmt.Printf("[%.2f] %s\n", s.Score, s.Content)
			}
			return nil
		},
	}
}
