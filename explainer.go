package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"explainer/pkg"
	"explainer/pkg/config"
	"explainer/pkg/io"

	"github.com/spf13/cobra"
)

func ExplainCommand(cfg *config.Config) *cobra.Command {
	var params pkg.ExplainParameters
	var dataFormat string

	var cmd = &cobra.Command{
		Use:   "explain -m modelFile [-i inputFile] [-o outputFile]",
		Short: "Explains the predictions of the provided model on every instance of the input as per-feature contributions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.DataFormat = io.Format(dataFormat)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return pkg.Explain(ctx, params)
		},
	}

	cmd.Flags().StringVarP(&params.ModelFile, "model", "m", "", "name of model file (.yaml/.yml/.json documents, binary otherwise)")
	cmd.Flags().StringVarP(&params.InputFile, "input", "i", "", "name of data input file (optional, uses stdin if not present)")
	cmd.Flags().StringVarP(&params.OutputFile, "output", "o", "", "name of output file (optional, uses stdout if not present)")
	cmd.Flags().StringVarP(&dataFormat, "data-format", "d", string(io.CSV), "input format: csv, jsonl or text")
	cmd.Flags().StringVarP(&params.OutputFormat, "format", "f", pkg.OutputJSON, "output format: json or text")
	cmd.Flags().BoolVarP(&params.ShowFeatureValues, "show-values", "", false, "show feature values in text output")
	cmd.Flags().BoolVarP(&params.Color, "color", "", false, "highlight positive and negative weights in text output")
	cmd.Flags().StringVarP(&params.OptionsFile, "options", "", "", "YAML file of explain options")
	cmd.Flags().IntVarP(&params.Top, "top", "t", cfg.Top, "number of contributions of each sign to keep, 0 keeps all")
	cmd.Flags().IntVarP(&params.TopTargets, "top-targets", "", 0, "keep the N highest scoring targets, or the N lowest if negative")
	cmd.Flags().StringSliceVarP(&params.Targets, "targets", "", nil, "list of targets to explain")
	cmd.Flags().StringVarP(&params.FeatureRe, "feature-re", "r", "", "only show features whose name matches this pattern")
	cmd.Flags().IntVarP(&params.Workers, "workers", "w", cfg.Workers, "number of instances explained concurrently")
	cmd.Flags().IntVarP(&params.BatchSize, "batch-size", "b", 64, "number of records read per batch")
	cmd.Flags().StringVarP(&params.MetricsFile, "metrics-file", "", "", "write prometheus metrics to this file (optional)")

	_ = cmd.MarkFlagRequired("model")

	return cmd
}

var logLevel string
var logFormat string

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	Main := &cobra.Command{Use: "explainer", PersistentPreRunE: setupLogging, SilenceUsage: true}

	Main.PersistentFlags().StringVarP(&logLevel, "log-level", "", cfg.LogLevel, "Logging level: info error or debug")
	Main.PersistentFlags().StringVarP(&logFormat, "log-format", "", cfg.LogFormat, "Logging format: pretty or json")

	Main.AddCommand(ExplainCommand(cfg))

	if err := Main.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("")
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %q", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		return fmt.Errorf("invalid log format %q", logFormat)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
