package io

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"explainer/pkg/model"
)

// Format is the layout of an instance file.
type Format string

const (
	// CSV files start with a header; feature columns are matched by name
	CSV Format = "csv"
	// JSONLines files hold one JSON value per line: an array of numbers, a string
	// document, or an object with a "features" array or a "text" string
	JSONLines Format = "jsonl"
	// Text files hold one document per line
	Text Format = "text"
)

// DataRecord is one instance to explain: a numeric vector or a raw document.
type DataRecord struct {
	Line     int
	Features []float64
	Document string
}

func (r *DataRecord) IsDocument() bool {
	return r.Features == nil
}

type DataBatch []*DataRecord

type DataParameters struct {
	// DataFile is read from stdin when empty
	DataFile  string
	Format    Format
	BatchSize int
}

type DataError struct {
	Line  int
	Error string
}

// LoadData reads the instance file and splits it into batches of at most BatchSize records.
// Malformed records are reported as DataErrors and skipped. For CSV input the feature
// columns are bound through metaData; without feature names every column is a feature
// and the returned metadata names them after the header.
func LoadData(p DataParameters, metaData *model.Metadata) (*model.Metadata, []DataBatch, []DataError, error) {
	input, closeInput, err := openInput(p.DataFile)
	if err != nil {
		return nil, nil, nil, err
	}
	defer closeInput()

	if metaData == nil {
		metaData = model.NewMetadata()
	}

	var records []*DataRecord
	var errors []DataError
	switch p.Format {
	case CSV, "":
		records, errors, err = readCSV(input, metaData)
	case JSONLines:
		records, errors, err = readJSONLines(input)
	case Text:
		records, err = readText(input)
	default:
		err = fmt.Errorf("unknown data format %q", p.Format)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return metaData, batch(records, p.BatchSize), errors, nil
}

func openInput(fileName string) (io.Reader, func(), error) {
	if fileName == "" {
		return os.Stdin, func() {}, nil
	}
	inputFile, err := os.Open(fileName)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	return inputFile, func() { inputFile.Close() }, nil
}

func batch(records []*DataRecord, batchSize int) []DataBatch {
	if batchSize <= 0 {
		batchSize = 1
	}
	var result []DataBatch
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		result = append(result, DataBatch(records[start:end]))
	}
	return result
}

func readCSV(input io.Reader, metaData *model.Metadata) ([]*DataRecord, []DataError, error) {
	reader := csv.NewReader(input)
	reader.Comma = ','
	reader.FieldsPerRecord = -1

	//First line is expected to be a header
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading data header: %w", err)
	}
	if metaData.FeatureCount() == 0 {
		metaData.FeatureNames = header
	}
	if err := metaData.BindColumns(header); err != nil {
		return nil, nil, err
	}

	var records []*DataRecord
	var errors []DataError
	currentLine := 1
	for record, err := reader.Read(); err != io.EOF; record, err = reader.Read() {
		currentLine++
		if err != nil {
			errors = append(errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}
		features, err := parseFeatures(metaData, record)
		if err != nil {
			errors = append(errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}
		records = append(records, &DataRecord{Line: currentLine, Features: features})
	}
	return records, errors, nil
}

// parseFeatures reads the bound feature columns of a record. Empty cells are missing values (NaN).
func parseFeatures(metaData *model.Metadata, record []string) ([]float64, error) {
	if len(record) != len(metaData.Columns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(metaData.Columns), len(record))
	}
	features := make([]float64, metaData.FeatureCount())
	for column, index := range metaData.FeaturesMap.ColumnToIndex {
		cell := strings.TrimSpace(record[column])
		if cell == "" {
			features[index] = math.NaN()
			continue
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing feature %s: %w", metaData.Columns[column], err)
		}
		features[index] = value
	}
	return features, nil
}

func readJSONLines(input io.Reader) ([]*DataRecord, []DataError, error) {
	var records []*DataRecord
	var errors []DataError
	currentLine := 0
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		currentLine++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		record, err := parseJSONRecord(line)
		if err != nil {
			errors = append(errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}
		record.Line = currentLine
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading data: %w", err)
	}
	return records, errors, nil
}

func parseJSONRecord(line string) (*DataRecord, error) {
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("invalid JSON")
	}
	value := gjson.Parse(line)
	if value.IsObject() {
		if text := value.Get("text"); text.Exists() {
			value = text
		} else {
			value = value.Get("features")
		}
	}
	switch {
	case value.Type == gjson.String:
		return &DataRecord{Document: value.String()}, nil
	case value.IsArray():
		items := value.Array()
		features := make([]float64, len(items))
		for i, item := range items {
			switch item.Type {
			case gjson.Number:
				features[i] = item.Float()
			case gjson.Null:
				features[i] = math.NaN()
			default:
				return nil, fmt.Errorf("feature %d is not a number: %s", i, item.Raw)
			}
		}
		return &DataRecord{Features: features}, nil
	default:
		return nil, fmt.Errorf("expected a feature array or a document, got %s", value.Type)
	}
}

func readText(input io.Reader) ([]*DataRecord, error) {
	var records []*DataRecord
	currentLine := 0
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		currentLine++
		if doc := strings.TrimSpace(scanner.Text()); doc != "" {
			records = append(records, &DataRecord{Line: currentLine, Document: doc})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading data: %w", err)
	}
	return records, nil
}
