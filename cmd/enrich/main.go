// Command enrich runs one enrichment batch from the terminal and writes
// the resulting metadata records as a JSON artifact.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/repometa/internal/config"
	"github.com/dgallion1/repometa/internal/github"
	"github.com/dgallion1/repometa/internal/parser"
	"github.com/dgallion1/repometa/internal/pipeline"
	"github.com/dgallion1/repometa/internal/repourl"
	"github.com/dgallion1/repometa/internal/translate"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	var (
		verbose bool
		owner   string
		repos   []string
		output  string
	)

	root := &cobra.Command{
		Use:          "enrich",
		Short:        "Enrich GitHub READMEs into structured metadata records",
		Long:         "Enrich fetches README files for an owner's repositories, extracts summary, technologies, images and documentation links, and writes the records as JSON.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			log := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05",
				Level:           level,
			}))

			cfg := config.Load()
			if owner != "" {
				cfg.GithubOwner = owner
			}
			if cfg.GithubOwner == "" {
				return fmt.Errorf("an owner is required (--owner or GITHUB_OWNER)")
			}

			return enrich(cmd.Context(), cfg, repos, output, log)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().StringVarP(&owner, "owner", "o", "", "GitHub owner whose repositories to enrich")
	root.Flags().StringSliceVarP(&repos, "repo", "r", nil, "repository name to enrich (repeatable; default: discover via GraphQL)")
	root.Flags().StringVar(&output, "output", "repometa.json", "path of the JSON artifact to write")

	return root.ExecuteContext(context.Background())
}

func enrich(ctx context.Context, cfg config.Config, repos []string, output string, log *slog.Logger) error {
	fetcher := github.NewRawFetcher()
	defer fetcher.Close()
	probe := github.NewProbe()
	defer probe.Close()
	client := translate.NewClient(cfg.TranslateAPIKey, cfg.TargetLang)
	defer client.Close()
	translator := translate.NewCached(client, translate.NewFileStore(cfg.CacheDir), log)

	descriptors, err := resolveDescriptors(ctx, cfg, repos)
	if err != nil {
		return err
	}
	log.Info("enriching repositories", "owner", cfg.GithubOwner, "repos", len(descriptors))

	resolver := repourl.NewResolver(cfg.GithubOwner, cfg.DefaultBranch, cfg.Elevated())
	enricher := pipeline.NewEnricher(parser.New(true), resolver, pipeline.EnricherOptions{
		Fetcher:    fetcher,
		Downloader: fetcher,
		Prober:     probe,
		Translator: translator,
		AssetsDir:  cfg.AssetsDir,

		MaxConcurrentTranslate: cfg.MaxConcurrentTranslate,
	}, log)

	job := pipeline.NewJob(cfg.GithubOwner, descriptors)
	pipeline.NewWorker(enricher, log).Process(ctx, job)

	records := job.Records()
	if records == nil {
		return fmt.Errorf("enrichment did not complete: %s", job.Snapshot().Phase)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	log.Info("artifact written", "path", output, "records", len(records))
	return nil
}

func resolveDescriptors(ctx context.Context, cfg config.Config, repos []string) ([]github.Descriptor, error) {
	if len(repos) > 0 {
		descriptors := make([]github.Descriptor, 0, len(repos))
		for _, name := range repos {
			descriptors = append(descriptors, github.Descriptor{
				Name: name,
				URL:  "https://github.com/" + cfg.GithubOwner + "/" + name,
			})
		}
		return descriptors, nil
	}
	if cfg.GithubToken == "" {
		return nil, fmt.Errorf("GraphQL discovery needs GITHUB_TOKEN; pass --repo instead")
	}
	lister := github.NewLister(cfg.GithubToken)
	defer lister.Close()
	return lister.ListRepositories(ctx, cfg.GithubOwner)
}
