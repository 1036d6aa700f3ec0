// Command credscore scores transaction histories, derives Good/Bad risk
// labels and reports WOE/IV feature strength from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"credscore/adapters/excel"
	"credscore/adapters/postgres"
	"credscore/domain/core"
	"credscore/domain/risk"
	"credscore/internal/config"
	"credscore/internal/features"
	"credscore/internal/profiling"
	"credscore/internal/scoring"
	"credscore/internal/woe"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	rootCmd := &cobra.Command{
		Use:   "credscore",
		Short: "RFMS credit scoring and WOE/IV feature analysis",
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newWoeCmd(),
		newProfileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScoreCmd() *cobra.Command {
	var (
		output        string
		referenceTime string
		persist       bool
	)

	cmd := &cobra.Command{
		Use:   "score [input-file]",
		Short: "Aggregate transactions into RFMS metrics and label customers",
		Long: `Aggregate raw transactions per customer into Recency, Frequency,
Monetary and StdDeviation metrics, score each metric on a 1-5 scale,
combine them into a weighted composite and split the population into
Good and Bad at the boundary quantile.

Example: credscore score transactions.csv --output labeled.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if referenceTime != "" {
				cfg.Scoring.ReferenceTime = referenceTime
			}
			if output == "" {
				output = cfg.Data.OutputFile
			}
			return runScore(cmd, args[0], output, persist, cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default: stdout summary only)")
	cmd.Flags().StringVar(&referenceTime, "reference-time", "", "recency reference instant, RFC3339 (default: now)")
	cmd.Flags().BoolVar(&persist, "persist", false, "store the run in PostgreSQL (DATABASE_URL)")

	return cmd
}

func runScore(cmd *cobra.Command, input, output string, persist bool, cfg *config.Config) error {
	tbl, err := excel.NewDataReader(input).ReadTable()
	if err != nil {
		return err
	}

	ref := time.Now().UTC()
	if cfg.Scoring.ReferenceTime != "" {
		if ref, err = core.ParseTimestamp(cfg.Scoring.ReferenceTime); err != nil {
			return err
		}
	}

	engine := scoring.NewEngine()
	records, err := engine.Aggregate(tbl, ref)
	if err != nil {
		return err
	}
	scored, err := engine.Score(records, cfg.Scoring.Weights)
	if err != nil {
		return err
	}
	labeled, boundary, err := engine.Label(scored, cfg.Scoring.BoundaryQuantile)
	if err != nil {
		return err
	}

	var good, bad int
	for _, rec := range labeled {
		if rec.RiskLabel == risk.LabelGood {
			good++
		} else {
			bad++
		}
	}
	log.Info().Int("customers", len(labeled)).Float64("boundary", boundary).
		Int("good", good).Int("bad", bad).Msg("scored population")

	if output != "" {
		if err := excel.WriteCSV(risk.LabeledFrame(labeled), output); err != nil {
			return err
		}
	}

	if persist {
		if cfg.Database.URL == "" {
			return fmt.Errorf("--persist requires DATABASE_URL")
		}
		store, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		run := postgres.ScoringRun{
			ID:               core.NewID(),
			Boundary:         boundary,
			BoundaryQuantile: cfg.Scoring.BoundaryQuantile,
			CreatedAt:        time.Now().UTC(),
		}
		if err := store.SaveRun(ctx, run, labeled); err != nil {
			return err
		}
		log.Info().Str("run_id", run.ID.String()).Msg("persisted scoring run")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scored %d customers: %d good, %d bad (boundary %.4f)\n",
		len(labeled), good, bad, boundary)
	return nil
}

func newWoeCmd() *cobra.Command {
	var (
		output     string
		ignore     []string
		dateColumn string
		encodeIDs  []string
		zeroGuard  bool
	)

	cmd := &cobra.Command{
		Use:   "woe [input-file]",
		Short: "Bin features against a binary target and report WOE and IV",
		Long: `Quantile-bin numeric features and enumerate categorical features
against a binary target column, then report per-bin class counts,
Weight of Evidence and each feature's Information Value as JSON.

Example: credscore woe labeled.csv --ignore CustomerId`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			strategy := woe.SmoothingLaplace
			if zeroGuard {
				strategy = woe.SmoothingZeroGuard
			}
			return runWoe(cmd, args[0], output, ignore, dateColumn, encodeIDs, strategy, cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "report JSON path (default: stdout)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "columns to exclude from binning")
	cmd.Flags().StringVar(&dateColumn, "date-column", "", "timestamp column to decompose into Hour/Day/Month/Year features")
	cmd.Flags().StringSliceVar(&encodeIDs, "encode-id", nil, "identifier columns to encode as numeric <name>Num features")
	cmd.Flags().BoolVar(&zeroGuard, "zero-guard", false, "substitute 0.01 for empty bin shares instead of Laplace smoothing")

	return cmd
}

func runWoe(cmd *cobra.Command, input, output string, ignore []string, dateColumn string, encodeIDs []string, strategy woe.Smoothing, cfg *config.Config) error {
	tbl, err := excel.NewDataReader(input).ReadTable()
	if err != nil {
		return err
	}

	if dateColumn != "" {
		if err := features.ExtractDateFeatures(tbl, dateColumn); err != nil {
			return err
		}
		ignore = append(ignore, dateColumn)
	}
	for _, column := range encodeIDs {
		if err := features.EncodeIDColumn(tbl, column); err != nil {
			return err
		}
		ignore = append(ignore, column)
	}

	binner, err := woe.New(tbl, cfg.Binning.Target)
	if err != nil {
		return err
	}

	skip := make(map[string]bool, len(ignore))
	for _, column := range ignore {
		skip[column] = true
	}

	numeric, err := binner.BinNumeric(skip, cfg.Binning.Bins)
	if err != nil {
		return err
	}
	categorical, err := binner.BinCategorical(skip, cfg.Binning.MaxDistinct)
	if err != nil {
		return err
	}

	reports, err := binner.Report(cmd.Context(), append(numeric, categorical...), cfg.Binning.GoodLabel, strategy)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	if output != "" {
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("file", output).Int("features", len(reports)).Msg("wrote WOE report")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func newProfileCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "profile [input-file]",
		Short: "Summarize the distribution of every numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := excel.NewDataReader(args[0]).ReadTable()
			if err != nil {
				return err
			}
			profiles, err := profiling.ProfileTable(tbl)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(profiles, "", "  ")
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "profile JSON path (default: stdout)")
	return cmd
}
