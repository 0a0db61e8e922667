// Package text provides a bag-of-words vectorizer that turns documents into
// token count vectors.
package text

import (
	"regexp"
	"sort"
	"strings"

	"explainer/pkg/model"
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// CountVectorizer maps every known token of a document to its count.
type CountVectorizer struct {
	Vocabulary model.NameMap

	// Binary records presence (1) instead of counts
	Binary bool
}

// NewCountVectorizer builds a vectorizer over a fixed vocabulary, in feature index order.
func NewCountVectorizer(vocabulary []string, binary bool) *CountVectorizer {
	return &CountVectorizer{Vocabulary: model.NewNameMap(vocabulary...), Binary: binary}
}

// Fit builds a vectorizer whose vocabulary holds every token of docs, sorted.
func Fit(docs []string, binary bool) *CountVectorizer {
	seen := map[string]struct{}{}
	for _, doc := range docs {
		for _, token := range Tokenize(doc) {
			seen[token] = struct{}{}
		}
	}
	vocabulary := make([]string, 0, len(seen))
	for token := range seen {
		vocabulary = append(vocabulary, token)
	}
	sort.Strings(vocabulary)
	return NewCountVectorizer(vocabulary, binary)
}

// Tokenize lowercases doc and splits it into words of at least two characters.
func Tokenize(doc string) []string {
	return tokenPattern.FindAllString(strings.ToLower(doc), -1)
}

// Transform counts the vocabulary tokens of doc. Unknown tokens are ignored.
func (v *CountVectorizer) Transform(doc string) ([]float64, error) {
	result := make([]float64, v.Vocabulary.Size())
	for _, token := range Tokenize(doc) {
		index, ok := v.Vocabulary.ContainsName(token)
		if !ok {
			continue
		}
		if v.Binary {
			result[index] = 1
		} else {
			result[index]++
		}
	}
	return result, nil
}

func (v *CountVectorizer) FeatureNames() []string {
	return v.Vocabulary.Names()
}
