package explain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOptionsFromMap(t *testing.T) {
	var values map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(`
feature_names: [a, b, c]
target_names: [low, high]
top: 3
top_targets: -1
feature_re: "a|b"
`), &values))

	opts, err := OptionsFromMap(values)
	require.NoError(t, err)
	o, err := newOptions(opts)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, o.FeatureNames)
	require.Equal(t, []string{"low", "high"}, o.TargetNames)
	require.Equal(t, 3, o.Top)
	require.Equal(t, -1, o.TopTargets)
	require.True(t, o.FeatureRe.MatchString("b"))
	require.False(t, o.FeatureRe.MatchString("ab"))
}

func TestOptionsFromMap_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
		err    error
	}{
		{
			name:   "unknown key",
			values: map[string]interface{}{"top": 1, "explain_weights": true},
			err:    ErrUnknownOption,
		},
		{
			name:   "top not an integer",
			values: map[string]interface{}{"top": 1.5},
			err:    ErrConfiguration,
		},
		{
			name:   "targets not strings",
			values: map[string]interface{}{"targets": []interface{}{"a", 2}},
			err:    ErrConfiguration,
		},
		{
			name:   "vectorizer type",
			values: map[string]interface{}{"vec": "tfidf"},
			err:    ErrConfiguration,
		},
		{
			name:   "feature filter type",
			values: map[string]interface{}{"feature_filter": "LSTAT"},
			err:    ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OptionsFromMap(tt.values)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.err), err.Error())
		})
	}
}

func TestNewOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		ok   bool
	}{
		{name: "empty", ok: true},
		{name: "top", opts: []Option{WithTop(2)}, ok: true},
		{name: "negative top", opts: []Option{WithTop(-2)}},
		{name: "exclusive targets", opts: []Option{WithTargets("a"), WithTopTargets(1)}},
		{name: "bad pattern", opts: []Option{WithFeatureRe("[")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newOptions(tt.opts)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}
