package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spacesedan/tubesentiment/config"
	"github.com/spacesedan/tubesentiment/internal/clients"
	"github.com/spacesedan/tubesentiment/internal/logging"
	"github.com/spacesedan/tubesentiment/internal/models"
	"github.com/spacesedan/tubesentiment/internal/sentiment"
	"github.com/spf13/cobra"
)

type options struct {
	policy  string
	lexicon string
	pretty  bool
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.AppConfig) *cobra.Command {
	opts := &options{
		policy:  cfg.Sentiment.Policy,
		lexicon: cfg.Sentiment.LexiconFile,
	}

	root := &cobra.Command{
		Use:          "score [text...]",
		Short:        "Score the sentiment of short texts",
		Long:         "Scores each argument, or each non-empty stdin line when no arguments are given, and prints JSON.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(opts)
			if err != nil {
				return err
			}

			texts := args
			if len(texts) == 0 {
				texts, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			if len(texts) == 0 {
				return fmt.Errorf("no texts to score")
			}

			results, stats := analyzer.AnalyzeTexts(texts)
			return printJSON(cmd.OutOrStdout(), opts.pretty, models.AnalyzeResponse{
				Policy:          analyzer.Policy().Name(),
				ConfidenceScale: analyzer.Policy().ConfidenceScale(),
				Results:         results,
				SentimentStats:  stats,
			})
		},
	}

	root.PersistentFlags().StringVar(&opts.policy, "policy", opts.policy, "classification policy: lexicon or ensemble")
	root.PersistentFlags().StringVar(&opts.lexicon, "lexicon", opts.lexicon, "YAML file with extra lexicon words")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")

	root.AddCommand(newVideoCmd(cfg, opts))
	return root
}

func newVideoCmd(cfg config.AppConfig, opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "video <video_id>",
		Short: "Fetch and score the top-level comments of a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(opts)
			if err != nil {
				return err
			}

			videoID := args[0]
			youtube := clients.NewYouTubeClient(cfg.YouTube)
			ctx := cmd.Context()

			resp := models.CommentsResponse{
				VideoID:         videoID,
				Policy:          analyzer.Policy().Name(),
				ConfidenceScale: analyzer.Policy().ConfidenceScale(),
			}

			meta, err := youtube.FetchVideoMetadata(ctx, videoID)
			if err != nil {
				slog.Warn("[Score] Video metadata unavailable", slog.String("error", err.Error()))
			} else {
				resp.VideoTitle = meta.Title
				if !meta.PublishedAt.IsZero() {
					published := meta.PublishedAt
					resp.VideoPublishedAt = &published
				}
			}

			limit = max(1, min(limit, cfg.YouTube.MaxResultsCap))
			comments, err := youtube.FetchComments(ctx, videoID, limit)
			if err != nil {
				return err
			}

			resp.Comments, resp.SentimentStats = analyzer.AnalyzeComments(comments)
			return printJSON(cmd.OutOrStdout(), opts.pretty, resp)
		},
	}

	cmd.Flags().IntVar(&limit, "max", cfg.YouTube.DefaultMaxResults, "maximum number of comments to fetch")
	return cmd
}

func buildAnalyzer(opts *options) (*sentiment.Analyzer, error) {
	lexicon, err := sentiment.LoadCustomLexicon(opts.lexicon)
	if err != nil {
		return nil, err
	}
	return sentiment.NewAnalyzer(sentiment.AnalyzerConfig{
		Policy:  opts.policy,
		Lexicon: lexicon,
	})
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return lines, nil
}

func printJSON(w io.Writer, pretty bool, v any) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
