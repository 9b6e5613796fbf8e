package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/catalog"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/logging"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/usecase"
)

type globalOptions struct {
	catalogSource string
	catalogPath   string
	logLevel      string
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "matchctl",
		Short: "Match order text against the EarlyBird product catalog",
		Long: `matchctl runs the catalog matcher outside the HTTP service.

It can match transcript or OCR text, report edit distances between names,
and convert catalogs between YAML and SQLite.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.catalogSource, "catalog", "builtin", "Catalog source (builtin, yaml, sqlite) [EARLYBIRD_CATALOG_SOURCE]")
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog-path", "", "Catalog file for the yaml and sqlite sources [EARLYBIRD_CATALOG_PATH]")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error) [EARLYBIRD_LOG_LEVEL]")

	// Flags win over the environment (and a .env file), which wins over flag defaults
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return opts.resolve(cmd.Root().PersistentFlags())
	}

	cmd.AddCommand(matchCmd(opts), distanceCmd(), exportCmd(opts))
	return cmd
}

// envBindings maps persistent flags to the variables the server reads.
var envBindings = []struct {
	flag string
	env  string
}{
	{"catalog", "EARLYBIRD_CATALOG_SOURCE"},
	{"catalog-path", "EARLYBIRD_CATALOG_PATH"},
	{"log-level", "EARLYBIRD_LOG_LEVEL"},
}

func (o *globalOptions) resolve(flags *pflag.FlagSet) error {
	v := viper.New()
	for _, b := range envBindings {
		if err := v.BindPFlag(b.flag, flags.Lookup(b.flag)); err != nil {
			return err
		}
		if err := v.BindEnv(b.flag, b.env); err != nil {
			return err
		}
	}

	o.catalogSource = v.GetString("catalog")
	o.catalogPath = v.GetString("catalog-path")
	o.logLevel = v.GetString("log-level")
	return nil
}

func matchCmd(opts *globalOptions) *cobra.Command {
	var (
		source           string
		threshold        float64
		strategy         string
		sourceConfidence float64
		debug            bool
	)

	cmd := &cobra.Command{
		Use:   "match [text...]",
		Short: "Parse text into items and match them against the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("development", opts.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			src := domain.Source(source)
			if !src.Valid() {
				return fmt.Errorf("%w: %q", domain.ErrUnknownSource, source)
			}

			parsedStrategy, err := usecase.ParseStrategy(strategy)
			if err != nil {
				return err
			}

			products, err := catalog.Load(cmd.Context(), opts.catalogSource, opts.catalogPath)
			if err != nil {
				return err
			}
			entries, err := products.List(cmd.Context())
			if err != nil {
				return err
			}

			if threshold == 0 {
				threshold = usecase.DefaultThreshold
				if src == domain.SourceVoice {
					threshold = usecase.VoiceThreshold
				}
			}

			items := usecase.NewItemParser(logger, debug).Parse(strings.Join(args, " "), sourceConfidence)
			if len(items) == 0 {
				return fmt.Errorf("%w: no items found in text", domain.ErrInvalidRequest)
			}

			matcher := usecase.NewCatalogMatcher(usecase.MatchConfig{Strategy: parsedStrategy})
			results, err := usecase.MatchAll(cmd.Context(), matcher, items, entries, threshold, 0)
			if err != nil {
				return err
			}

			logger.Debug("matched items",
				zap.Int("items", len(results)),
				zap.Float64("averageConfidence", usecase.CalculateAverageConfidence(results)))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(struct {
				Threshold         float64              `json:"threshold"`
				Results           []domain.MatchResult `json:"results"`
				AverageConfidence float64              `json:"averageConfidence"`
			}{threshold, results, usecase.CalculateAverageConfidence(results)})
		},
	}

	cmd.Flags().StringVar(&source, "source", string(domain.SourceManual), "Ingestion source (voice, ocr, manual)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Review threshold (default depends on source)")
	cmd.Flags().StringVar(&strategy, "strategy", string(usecase.StrategyFirst), "Candidate strategy (first, best)")
	cmd.Flags().Float64Var(&sourceConfidence, "source-confidence", 0, "Confidence reported by the upstream engine")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log every parsed item")

	return cmd
}

func distanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance <a> <b>",
		Short: "Print the edit distance and similarity of two names",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "distance=%d similarity=%.4f\n",
				usecase.LevenshteinDistance(args[0], args[1]),
				usecase.NameSimilarity(args[0], args[1]))
			return err
		},
	}
}

func exportCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the selected catalog to a YAML file or SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := catalog.Load(cmd.Context(), opts.catalogSource, opts.catalogPath)
			if err != nil {
				return err
			}
			entries, err := products.List(cmd.Context())
			if err != nil {
				return err
			}

			switch format {
			case "yaml":
				err = catalog.SaveYAML(args[0], entries)
			case "sqlite":
				err = catalog.SeedSQLite(cmd.Context(), args[0], entries)
			default:
				return fmt.Errorf("unknown export format %q (want yaml or sqlite)", format)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", len(entries), args[0])
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml, sqlite)")
	return cmd
}
