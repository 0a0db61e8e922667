package model

import "fmt"

// NameMap implements a bidirectional mapping between a name and an index
type NameMap struct {
	NameToIndex map[string]int
	IndexToName map[int]string
}

func (f NameMap) Set(name string, index int) {
	f.NameToIndex[name] = index
	f.IndexToName[index] = name
}

func (f NameMap) Size() int {
	return len(f.IndexToName)
}

func (f NameMap) ContainsName(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

// ValueFor returns the index of name, adding it with the next free index if missing.
func (f NameMap) ValueFor(name string) int {
	index, ok := f.NameToIndex[name]
	if !ok {
		index = f.Size()
		f.Set(name, index)
	}
	return index
}

// Names returns the names ordered by index.
func (f NameMap) Names() []string {
	result := make([]string, f.Size())
	for index, name := range f.IndexToName {
		result[index] = name
	}
	return result
}

func NewNameMap(names ...string) NameMap {
	m := NameMap{
		NameToIndex: map[string]int{},
		IndexToName: map[int]string{},
	}
	for i, name := range names {
		m.Set(name, i)
	}
	return m
}

// ColumnMap is a bidirectional mapping between a column index and a feature vector index
type ColumnMap struct {
	ColumnToIndex map[int]int
	IndexToColumn map[int]int
}

func (f ColumnMap) Set(column int, index int) {
	f.ColumnToIndex[column] = index
	f.IndexToColumn[index] = column
}

func (f ColumnMap) Size() int {
	return len(f.ColumnToIndex)
}

func NewColumnMap() ColumnMap {
	return ColumnMap{
		ColumnToIndex: map[int]int{},
		IndexToColumn: map[int]int{},
	}
}

// Metadata describes the inputs and outputs of a fitted model as stored in a model file.
type Metadata struct {
	// FeatureNames are the names of the model inputs, in feature vector order
	FeatureNames []string `yaml:"feature_names,omitempty"`

	// TargetNames are display names for the model outputs
	TargetNames []string `yaml:"target_names,omitempty"`

	// BinaryCounts marks text models fitted on token presence rather than token counts
	BinaryCounts bool `yaml:"binary_counts,omitempty"`

	// Columns holds the header of the last data file bound with BindColumns
	Columns []string `yaml:"-"`

	// FeaturesMap maps a data row column index to a feature vector index
	FeaturesMap ColumnMap `yaml:"-"`
}

func NewMetadata(featureNames ...string) *Metadata {
	return &Metadata{
		FeatureNames: featureNames,
		FeaturesMap:  NewColumnMap(),
	}
}

func (d *Metadata) FeatureCount() int {
	return len(d.FeatureNames)
}

// BindColumns resolves every feature name against a data file header.
// Columns that are not features (ids, the target) are ignored. A feature must
// appear exactly once in the header.
func (d *Metadata) BindColumns(header []string) error {
	d.Columns = header
	d.FeaturesMap = NewColumnMap()
	features := NewNameMap(d.FeatureNames...)
	for column, name := range header {
		index, ok := features.ContainsName(name)
		if !ok {
			continue
		}
		if _, bound := d.FeaturesMap.IndexToColumn[index]; bound {
			return fmt.Errorf("feature column %s appears more than once in data header", name)
		}
		d.FeaturesMap.Set(column, index)
	}
	if d.FeaturesMap.Size() != features.Size() {
		for _, name := range d.FeatureNames {
			if !contains(header, name) {
				return fmt.Errorf("feature column %s not found in data header", name)
			}
		}
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
