package io

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"explainer/pkg/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadData(t *testing.T) {
	dataFile := writeFile(t, "houses.csv", `id,RM,LSTAT,price
1,6.575,4.98,24.0
2,6.421,9.14,21.6
3,7.185,,34.7
4,abc,2.94,33.4
5,6.998,2.94,33.4
`)
	params := DataParameters{
		DataFile:  dataFile,
		Format:    CSV,
		BatchSize: 2,
	}

	metaData, data, dataErrors, err := LoadData(params, model.NewMetadata("LSTAT", "RM"))
	require.NoError(t, err)
	require.NotNil(t, metaData)
	require.Equal(t, 2, len(data))
	require.Equal(t, 1, len(dataErrors)) // Line 5 holds a non-numeric RM
	require.Equal(t, 5, dataErrors[0].Line)

	first := data[0][0]
	require.Equal(t, 2, first.Line)
	require.Equal(t, []float64{4.98, 6.575}, first.Features)
	require.False(t, first.IsDocument())

	missing := data[1][0]
	require.Equal(t, 4, missing.Line)
	require.True(t, math.IsNaN(missing.Features[0]))
	require.Equal(t, 2, len(data[1]))
}

func TestLoadData_AllColumns(t *testing.T) {
	dataFile := writeFile(t, "plain.csv", "a,b\n1,2\n3,4\n")
	metaData, data, dataErrors, err := LoadData(DataParameters{DataFile: dataFile, BatchSize: 10}, nil)
	require.NoError(t, err)
	require.Empty(t, dataErrors)
	require.Equal(t, []string{"a", "b"}, metaData.FeatureNames)
	require.Equal(t, 1, len(data))
	require.Equal(t, []float64{3, 4}, data[0][1].Features)
}

func TestLoadData_MissingColumn(t *testing.T) {
	dataFile := writeFile(t, "plain.csv", "a,b\n1,2\n")
	_, _, _, err := LoadData(DataParameters{DataFile: dataFile}, model.NewMetadata("a", "c"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "feature column c not found")
}

func TestLoadData_DuplicateColumn(t *testing.T) {
	dataFile := writeFile(t, "duplicate.csv", "a,a,b\n1,2,3\n")

	tests := []struct {
		name     string
		metaData *model.Metadata
	}{
		{name: "model features", metaData: model.NewMetadata("a", "b")},
		{name: "header features", metaData: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := LoadData(DataParameters{DataFile: dataFile}, tt.metaData)
			require.Error(t, err)
			require.Contains(t, err.Error(), "feature column a appears more than once in data header")
		})
	}
}

func TestLoadData_JSONLines(t *testing.T) {
	dataFile := writeFile(t, "instances.jsonl", `[1.5, 2, null]
"a document about files"

{"features": [0, 1, 2]}
{"text": "another document"}
[1, "two"]
not json
`)
	_, data, dataErrors, err := LoadData(DataParameters{DataFile: dataFile, Format: JSONLines, BatchSize: 10}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, len(data))
	records := data[0]
	require.Equal(t, 4, len(records))

	require.Equal(t, 1.5, records[0].Features[0])
	require.True(t, math.IsNaN(records[0].Features[2]))
	require.True(t, records[1].IsDocument())
	require.Equal(t, "a document about files", records[1].Document)
	require.Equal(t, 4, records[2].Line)
	require.Equal(t, []float64{0, 1, 2}, records[2].Features)
	require.Equal(t, "another document", records[3].Document)

	require.Equal(t, 2, len(dataErrors))
	require.Equal(t, 6, dataErrors[0].Line)
	require.Equal(t, 7, dataErrors[1].Line)
}

func TestLoadData_Text(t *testing.T) {
	dataFile := writeFile(t, "docs.txt", "first doc\n\nsecond doc\n")
	_, data, _, err := LoadData(DataParameters{DataFile: dataFile, Format: Text, BatchSize: 1}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, len(data))
	require.Equal(t, "second doc", data[1][0].Document)
	require.Equal(t, 3, data[1][0].Line)
}

func testLinearModel() *model.Model {
	m, _ := model.Wrap(&model.LinearModel{
		Coef:         [][]float64{{1, -2}},
		Intercept:    []float64{0.5},
		FitIntercept: true,
	}, model.NewMetadata("a", "b"))
	return m
}

func TestSaveLoadModel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveModel(testLinearModel(), &buf))

	loaded, err := LoadModel(&buf)
	require.NoError(t, err)
	require.Equal(t, model.KindLinear, loaded.Kind)
	require.Equal(t, []string{"a", "b"}, loaded.MetaData.FeatureNames)
	require.Equal(t, [][]float64{{1, -2}}, loaded.Linear.Coef)
}

func TestSaveModelFile_Document(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, SaveModelFile(testLinearModel(), fileName))

	loaded, err := LoadModelFile(fileName)
	require.NoError(t, err)
	estimator, err := loaded.Estimator()
	require.NoError(t, err)
	require.Equal(t, []float64{1.5}, estimator.(*model.LinearModel).Decision([]float64{1, 0}))
}

func TestLoadModelDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     string
	}{
		{
			name: "json forest",
			content: `{"kind": "forest", "forest": {"trees": [{"nodes": [` +
				`{"left": 1, "right": 2, "feature": 0, "threshold": 0.5, "value": [2.0]},` +
				`{"left": -1, "right": -1, "value": [1.0]},` +
				`{"left": -1, "right": -1, "value": [3.0]}]}]}}`,
		},
		{
			name:    "unknown field",
			content: "kind: linear\nlinear:\n  coef: [[1]]\n  fit_intercept: false\n  bogus: 1\n",
			err:     "field bogus not found",
		},
		{
			name:    "missing section",
			content: "kind: decision_tree\n",
			err:     "has no decision_tree section",
		},
		{
			name:    "invalid tree",
			content: "kind: decision_tree\ndecision_tree:\n  tree:\n    nodes:\n      - {left: 0, right: 0, value: [1]}\n",
			err:     "invalid child",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LoadModelDocument(bytes.NewBufferString(tt.content))
			if tt.err != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, m.MetaData)
			require.Equal(t, []float64{3.0}, m.Forest.Predict([]float64{1}))
		})
	}
}
