package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/FaroutYLq/whatsup/internal/ai/gemini"
	"github.com/FaroutYLq/whatsup/internal/arxiv"
	"github.com/FaroutYLq/whatsup/internal/evaluator"
	"github.com/FaroutYLq/whatsup/internal/filtering"
	"github.com/FaroutYLq/whatsup/internal/library"
	"github.com/FaroutYLq/whatsup/internal/logger"
	"github.com/FaroutYLq/whatsup/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptPrintDigest      = "Print the digest"
	PromptNo               = "No"
	PromptReportByCategory = "Report by category"
	PromptDigestToFile     = "Dump digest to file"
	PromptMarkSeen         = "Mark fetched papers as seen"

	defaultMaxWorkers   = 5
	defaultMinimumScore = 7.0
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptPrintDigest, PromptNo, PromptReportByCategory, PromptDigestToFile, PromptMarkSeen},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch recent papers and score them against your research profile",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation if found relevant papers")
	runCmd.Flags().BoolP("show-samples", "v", false, "log the first raw scorer responses for sanity-checking")
	runCmd.Flags().StringP("seen-file", "s", "", "special file with papers already seen. Default is unset.")

	viper.BindPFlag("seen-file", runCmd.Flags().Lookup("seen-file"))

	viper.SetDefault("ai.minimum-relevance-score", defaultMinimumScore)
	viper.SetDefault("ai.gemini.max-workers", defaultMaxWorkers)
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the whatsup", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Search == nil || len(config.Search.Categories) == 0 {
		logger.Fatal("at least one arxiv category is required under search.categories")
	}

	if config.AI == nil || config.AI.Gemini == nil {
		logger.Fatal("gemini configuration is required under ai.gemini to score papers")
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		logger.Fatal("creating gemini generator", zap.Error(err))
	}

	logger.Info("starting the search", zap.Strings("categories", config.Search.Categories))

	papers, err := arxiv.New(logger).Search(ctx, config.Search)
	if err != nil {
		logger.Fatal("getting recent papers", zap.Error(err))
	}

	if papers.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no papers found"))
		return
	}

	filters := []filtering.Filter{
		filtering.NewSeenFile(viper.GetString("seen-file")),
		filtering.NewExcludedKeywords(config.ExcludeKeywords),
	}

	filtered, err := filtering.Run(ctx, logger, filters, papers)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	papers = filtered

	if papers.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no papers left after filters"))
		return
	}

	lib, err := library.LoadLibrary(config.Library)
	if err != nil {
		logger.Fatal("loading zotero library", zap.Error(err))
	}

	logger.Info("loaded zotero library", zap.Int("count", lib.Len()))

	eval, err := evaluator.New(generator, logger, evaluator.Config{
		Threshold:  config.AI.MinimumRelevanceScore,
		MaxWorkers: config.AI.Gemini.MaxWorkers,
		Verbose:    cmd.Flag("show-samples").Value.String() == "true",
	})
	if err != nil {
		logger.Fatal("creating evaluator", zap.Error(err))
	}

	logger.Info("scoring papers",
		zap.Int("count", papers.Len()),
		zap.String("model", generator.Model()),
	)

	bar := progressbar.Default(int64(papers.Len()), "scoring papers")
	eval.OnProgress(func(done, _ int) {
		_ = bar.Set(done)
	})

	digest := eval.Evaluate(ctx, papers, lib.Summary(library.DefaultDetailedPapers), config.Interests)
	_ = bar.Finish()

	if digest.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no papers above the relevance threshold"))
		return
	}

	if cmd.Flag("auto-aprove").Value.String() == "true" {
		if err := handleAction(PromptPrintDigest, logger, papers, digest); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if err := handleAction(PromptMarkSeen, logger, papers, digest); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current digest", zap.Int("count", digest.Len()))

		if err := handleAction(action, logger, papers, digest); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, papers *library.Papers, digest *library.Digest) error {
	switch action {
	case PromptPrintDigest:
		pretty, _ := json.MarshalIndent(digest.Items, "", "  ")
		logger.Info(string(pretty), zap.Int("papers count", digest.Len()))
		return nil
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByCategory:
		pretty, _ := json.MarshalIndent(digest.ReportByCategory(), "", "  ")
		logger.Info(string(pretty), zap.Int("papers count", digest.Len()))
		return nil
	case PromptDigestToFile:
		filename, err := digest.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump digest to file: %w", err)
		}
		logger.Info("dumping digest to file", zap.String("filename", filename))
		return nil
	case PromptMarkSeen:
		return markSeen(logger, papers)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// markSeen records the whole fetched batch, so papers below the threshold are
// not rescored on the next run either.
func markSeen(logger *zap.Logger, papers *library.Papers) error {
	path := strings.TrimSpace(viper.GetString("seen-file"))
	if path == "" {
		logger.Info("seen file is not configured; skipping")
		return nil
	}

	seen, err := library.GetSeenPapersFromFile(path)
	if err != nil {
		return fmt.Errorf("getting seen papers from file: %w", err)
	}

	seen.Append(papers.ToSeen())

	if err := seen.ToFile(path); err != nil {
		return fmt.Errorf("writing seen file: %w", err)
	}

	logger.Info("marked papers as seen",
		zap.Int("added", papers.Len()),
		zap.String("filename", path),
	)
	return nil
}

func resolveAPIKey(config *Config) (string, error) {
	if config == nil || config.AI == nil || config.AI.Gemini == nil {
		return "", errors.New("gemini configuration is required")
	}

	keyFile := strings.TrimSpace(config.AI.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  keyFile,
	})
}
