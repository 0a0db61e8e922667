package io

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"explainer/pkg/model"
)

type validator interface {
	Validate() error
}

// SaveModel writes the model in binary (gob) form.
func SaveModel(m *model.Model, writer io.Writer) error {
	encoder := gob.NewEncoder(writer)
	err := encoder.Encode(m)
	if err != nil {
		return fmt.Errorf("error encoding model: %w", err)
	}
	return nil
}

// LoadModel reads a model written by SaveModel.
func LoadModel(input io.Reader) (*model.Model, error) {
	decoder := gob.NewDecoder(input)
	m := model.Model{}
	err := decoder.Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("error decoding model: %w", err)
	}
	return validate(&m)
}

// SaveModelDocument writes the model as YAML.
func SaveModelDocument(m *model.Model, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("error encoding model: %w", err)
	}
	return nil
}

// LoadModelDocument reads a model written as YAML or JSON. Unknown fields are rejected.
func LoadModelDocument(input io.Reader) (*model.Model, error) {
	decoder := yaml.NewDecoder(input)
	decoder.KnownFields(true)
	m := model.Model{}
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("error decoding model: %w", err)
	}
	return validate(&m)
}

// LoadModelFile reads a model file, choosing the document format for .yaml, .yml
// and .json files and the binary format otherwise.
func LoadModelFile(fileName string) (*model.Model, error) {
	modelFile, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("error opening model file %s: %w", fileName, err)
	}
	defer modelFile.Close()

	if isDocument(fileName) {
		return LoadModelDocument(modelFile)
	}
	return LoadModel(modelFile)
}

// SaveModelFile writes a model file in the format implied by its extension: YAML for
// .yaml and .yml files, binary otherwise.
func SaveModelFile(m *model.Model, fileName string) error {
	outputFile, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("error creating model file %s: %w", fileName, err)
	}
	defer outputFile.Close()

	if ext := strings.ToLower(filepath.Ext(fileName)); ext == ".yaml" || ext == ".yml" {
		return SaveModelDocument(m, outputFile)
	}
	return SaveModel(m, outputFile)
}

func isDocument(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func validate(m *model.Model) (*model.Model, error) {
	estimator, err := m.Estimator()
	if err != nil {
		return nil, err
	}
	if v, ok := estimator.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s model: %w", m.Kind, err)
		}
	}
	if m.MetaData == nil {
		m.MetaData = model.NewMetadata()
	}
	return m, nil
}
