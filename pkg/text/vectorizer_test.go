package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	require.Equal(t, []string{"the", "file", "format", "is", "gif89a"}, Tokenize("The FILE format is a GIF89a!"))
	require.Empty(t, Tokenize("a b c"))
}

func TestFit(t *testing.T) {
	vec := Fit([]string{"space shuttle", "Shuttle orbit, shuttle launch"}, false)
	require.Equal(t, []string{"launch", "orbit", "shuttle", "space"}, vec.FeatureNames())

	x, err := vec.Transform("The shuttle reached orbit; the shuttle landed")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 0}, x)

	binary := Fit([]string{"space shuttle", "Shuttle orbit, shuttle launch"}, true)
	x, err = binary.Transform("The shuttle reached orbit; the shuttle landed")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 1, 0}, x)
}

func TestNewCountVectorizer(t *testing.T) {
	vec := NewCountVectorizer([]string{"zeta", "alpha"}, false)
	require.Equal(t, []string{"zeta", "alpha"}, vec.FeatureNames())

	x, err := vec.Transform("alpha alpha beta")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 2}, x)
}
