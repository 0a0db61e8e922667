package pkg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	gio "io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"explainer/pkg/explain"
	"explainer/pkg/format"
	"explainer/pkg/io"
	"explainer/pkg/metrics"
	"explainer/pkg/model"
	"explainer/pkg/text"
)

const (
	OutputJSON = "json"
	OutputText = "text"
)

type ExplainParameters struct {
	ModelFile  string
	InputFile  string
	OutputFile string
	DataFormat io.Format

	// OutputFormat is OutputJSON (one JSON document per line) or OutputText
	OutputFormat      string
	ShowFeatureValues bool
	Color             bool

	// OptionsFile is a YAML file of explain options; flags take precedence over it
	OptionsFile string
	Top         int
	TopTargets  int
	Targets     []string
	FeatureRe   string

	Workers     int
	BatchSize   int
	MetricsFile string
}

// ExplainedRecord is the outcome for one input record.
type ExplainedRecord struct {
	Line        int                  `json:"line"`
	Explanation *explain.Explanation `json:"explanation,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// Explain explains every record of the input file with the model and writes the
// results in input order.
func Explain(ctx context.Context, p ExplainParameters) error {
	m, err := io.LoadModelFile(p.ModelFile)
	if err != nil {
		return fmt.Errorf("error loading model from file %s: %w", p.ModelFile, err)
	}
	estimator, err := m.Estimator()
	if err != nil {
		return err
	}

	opts, err := explainOptions(p)
	if err != nil {
		return err
	}

	_, data, dataErrors, err := io.LoadData(io.DataParameters{
		DataFile:  p.InputFile,
		Format:    p.DataFormat,
		BatchSize: p.BatchSize,
	}, m.MetaData)
	if err != nil {
		return fmt.Errorf("error loading data from %s: %w", p.InputFile, err)
	}
	printDataErrors(dataErrors)
	if len(data) == 0 {
		return fmt.Errorf("no data to explain")
	}

	var outputWriter gio.Writer = os.Stdout
	if p.OutputFile != "" {
		outputFile, err := os.Create(p.OutputFile)
		if err != nil {
			return fmt.Errorf("error opening output file %s: %w", p.OutputFile, err)
		}
		defer outputFile.Close()
		outputWriter = outputFile
	}

	writer, err := newResultWriter(p, outputWriter)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	b := &batchExplainer{
		estimator: estimator,
		metaData:  m.MetaData,
		options:   opts,
		recorder:  recorder,
	}
	err = b.run(ctx, data, p.Workers, writer)
	if p.MetricsFile != "" {
		if mErr := recorder.WriteTextfile(p.MetricsFile); mErr != nil {
			log.Error().Err(mErr).Str("file", p.MetricsFile).Msg("Error writing metrics")
		}
	}
	return err
}

// explainOptions reads the options file, then adds the options given as flags.
func explainOptions(p ExplainParameters) ([]explain.Option, error) {
	var opts []explain.Option
	if p.OptionsFile != "" {
		content, err := os.ReadFile(p.OptionsFile)
		if err != nil {
			return nil, fmt.Errorf("error reading options file %s: %w", p.OptionsFile, err)
		}
		values := map[string]interface{}{}
		if err := yaml.Unmarshal(content, &values); err != nil {
			return nil, fmt.Errorf("error parsing options file %s: %w", p.OptionsFile, err)
		}
		opts, err = explain.OptionsFromMap(values)
		if err != nil {
			return nil, fmt.Errorf("error in options file %s: %w", p.OptionsFile, err)
		}
	}
	if p.Top > 0 {
		opts = append(opts, explain.WithTop(p.Top))
	}
	if p.TopTargets != 0 {
		opts = append(opts, explain.WithTopTargets(p.TopTargets))
	}
	if len(p.Targets) > 0 {
		opts = append(opts, explain.WithTargets(p.Targets...))
	}
	if p.FeatureRe != "" {
		opts = append(opts, explain.WithFeatureRe(p.FeatureRe))
	}
	if err := explain.CheckOptions(opts...); err != nil {
		return nil, err
	}
	return opts, nil
}

type batchExplainer struct {
	estimator interface{}
	metaData  *model.Metadata
	options   []explain.Option
	recorder  *metrics.Recorder
}

// recordOptions names the features and targets after the model metadata. Documents are
// vectorized with the model vocabulary. The shared options come last and override these.
func (b *batchExplainer) recordOptions(record *io.DataRecord, vectorizer *text.CountVectorizer) []explain.Option {
	var opts []explain.Option
	if record.IsDocument() {
		opts = append(opts, explain.WithVectorizer(vectorizer))
	} else if len(b.metaData.FeatureNames) == len(record.Features) {
		opts = append(opts, explain.WithFeatureNames(b.metaData.FeatureNames...))
	}
	if len(b.metaData.TargetNames) > 0 {
		opts = append(opts, explain.WithTargetNames(b.metaData.TargetNames...))
	}
	return append(opts, b.options...)
}

func (b *batchExplainer) run(ctx context.Context, data []io.DataBatch, workers int, writer resultWriter) error {
	if workers <= 0 {
		workers = 1
	}
	runID := uuid.New().String()
	vectorizer := text.NewCountVectorizer(b.metaData.FeatureNames, b.metaData.BinaryCounts)

	var records []*io.DataRecord
	for _, batch := range data {
		records = append(records, batch...)
	}
	log.Info().Str("run", runID).Int("records", len(records)).Int("workers", workers).Msg("Explaining")

	results := make([]ExplainedRecord, len(records))
	elapsed := make([]float64, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := explain.Explain(b.estimator, instance(record), b.recordOptions(record, vectorizer)...)
			duration := time.Since(start)
			elapsed[i] = duration.Seconds()

			results[i] = ExplainedRecord{Line: record.Line, Explanation: res}
			switch {
			case err != nil:
				results[i] = ExplainedRecord{Line: record.Line, Error: err.Error()}
				b.recorder.Observe("", metrics.StatusError, duration)
				log.Debug().Str("run", runID).Int("line", record.Line).Err(err).Msg("Error explaining record")
			case res.Error != "":
				b.recorder.Observe("", metrics.StatusUnsupported, duration)
			default:
				b.recorder.Observe(res.Method, metrics.StatusOK, duration)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := writer.Write(r); err != nil {
			return fmt.Errorf("error writing results: %w", err)
		}
	}

	mean, std := stat.MeanStdDev(elapsed, nil)
	log.Info().Str("run", runID).
		Int("explained", len(records)-failed).
		Int("failed", failed).
		Float64("MeanSeconds", mean).
		Float64("StdDevSeconds", std).
		Msg("")
	return nil
}

func instance(record *io.DataRecord) interface{} {
	if record.IsDocument() {
		return record.Document
	}
	return record.Features
}

type resultWriter interface {
	Write(r ExplainedRecord) error
}

func newResultWriter(p ExplainParameters, out gio.Writer) (resultWriter, error) {
	switch p.OutputFormat {
	case OutputText:
		return &textWriter{out: out, options: format.TextOptions{ShowFeatureValues: p.ShowFeatureValues, Color: p.Color}}, nil
	case OutputJSON, "":
		return &jsonWriter{encoder: json.NewEncoder(out)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", p.OutputFormat)
	}
}

type jsonWriter struct {
	encoder *json.Encoder
}

func (w *jsonWriter) Write(r ExplainedRecord) error {
	err := w.encoder.Encode(r)
	var unsupported *json.UnsupportedValueError
	if errors.As(err, &unsupported) {
		return w.encoder.Encode(ExplainedRecord{Line: r.Line, Error: fmt.Sprintf("cannot encode explanation: %s", unsupported.Str)})
	}
	return err
}

type textWriter struct {
	out     gio.Writer
	options format.TextOptions
}

func (w *textWriter) Write(r ExplainedRecord) error {
	if _, err := fmt.Fprintf(w.out, "Line %d\n", r.Line); err != nil {
		return err
	}
	if r.Error != "" {
		_, err := fmt.Fprintf(w.out, "Error: %s\n\n", r.Error)
		return err
	}
	if err := format.Text(w.out, r.Explanation, w.options); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w.out)
	return err
}
