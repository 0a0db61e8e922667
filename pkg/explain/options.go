package explain

import (
	"fmt"
	"regexp"
	"sort"
)

// Options control how a prediction is resolved, decomposed and trimmed.
// Zero values mean "not set".
type Options struct {
	Vectorizer    Vectorizer
	Vectorized    bool
	FeatureNames  []string
	TargetNames   []string
	Targets       []string
	TopTargets    int
	Top           int
	FeatureRe     *regexp.Regexp
	FeatureFilter func(name string, value float64) bool

	err error
}

// Option is a configuration function.
type Option func(*Options)

// WithVectorizer transforms raw documents into feature vectors and names the features after its vocabulary.
func WithVectorizer(v Vectorizer) Option {
	return func(o *Options) {
		o.Vectorizer = v
	}
}

// Vectorized marks the instance as already transformed by the vectorizer.
func Vectorized() Option {
	return func(o *Options) {
		o.Vectorized = true
	}
}

func WithFeatureNames(names ...string) Option {
	return func(o *Options) {
		o.FeatureNames = names
	}
}

// WithTargetNames overrides the target labels by position.
func WithTargetNames(names ...string) Option {
	return func(o *Options) {
		o.TargetNames = names
	}
}

// WithTargets keeps only the named targets, in the given order.
func WithTargets(targets ...string) Option {
	return func(o *Options) {
		o.Targets = targets
	}
}

// WithTopTargets keeps the n highest scoring targets, or the |n| lowest scoring
// ones when n is negative.
func WithTopTargets(n int) Option {
	return func(o *Options) {
		o.TopTargets = n
	}
}

// WithTop keeps the k largest contributions of each sign.
func WithTop(k int) Option {
	return func(o *Options) {
		o.Top = k
	}
}

// WithFeatureRe keeps only the features whose whole name matches pattern.
func WithFeatureRe(pattern string) Option {
	return func(o *Options) {
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			o.err = fmt.Errorf("%w: invalid feature_re %q: %v", ErrConfiguration, pattern, err)
			return
		}
		o.FeatureRe = re
	}
}

// WithFeatureFilter drops the features for which keep returns false.
func WithFeatureFilter(keep func(name string, value float64) bool) Option {
	return func(o *Options) {
		o.FeatureFilter = keep
	}
}

func newOptions(opts []Option) (*Options, error) {
	o := &Options{}
	for _, f := range opts {
		f(o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if o.Targets != nil && o.TopTargets != 0 {
		return nil, fmt.Errorf("%w: targets and top_targets are mutually exclusive", ErrConfiguration)
	}
	if o.Top < 0 {
		return nil, fmt.Errorf("%w: top must be positive, got %d", ErrConfiguration, o.Top)
	}
	return o, nil
}

// CheckOptions reports the first invalid option without explaining anything.
func CheckOptions(opts ...Option) error {
	_, err := newOptions(opts)
	return err
}

// OptionsFromMap converts named options, as read from a configuration file, to
// Options. Keys use the snake_case names of the explain arguments. An unknown key
// fails with ErrUnknownOption, a value of the wrong type with ErrConfiguration.
func OptionsFromMap(values map[string]interface{}) ([]Option, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Option
	for _, key := range keys {
		value := values[key]
		var opt Option
		var err error
		switch key {
		case "vec":
			v, ok := value.(Vectorizer)
			if !ok {
				err = typeError(key, "a vectorizer", value)
			}
			opt = WithVectorizer(v)
		case "vectorized":
			b, ok := value.(bool)
			if !ok {
				err = typeError(key, "a bool", value)
			}
			if b {
				opt = Vectorized()
			}
		case "feature_names":
			var names []string
			names, err = stringList(key, value)
			opt = WithFeatureNames(names...)
		case "target_names":
			var names []string
			names, err = stringList(key, value)
			opt = WithTargetNames(names...)
		case "targets":
			var names []string
			names, err = stringList(key, value)
			opt = WithTargets(names...)
		case "top_targets":
			var n int
			n, err = integer(key, value)
			opt = WithTopTargets(n)
		case "top":
			var n int
			n, err = integer(key, value)
			opt = WithTop(n)
		case "feature_re":
			s, ok := value.(string)
			if !ok {
				err = typeError(key, "a string", value)
			}
			opt = WithFeatureRe(s)
		case "feature_filter":
			keep, ok := value.(func(string, float64) bool)
			if !ok {
				err = typeError(key, "a func(string, float64) bool", value)
			}
			opt = WithFeatureFilter(keep)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownOption, key)
		}
		if err != nil {
			return nil, err
		}
		if opt != nil {
			result = append(result, opt)
		}
	}
	return result, nil
}

func typeError(key, expected string, value interface{}) error {
	return fmt.Errorf("%w: option %s must be %s, got %T", ErrConfiguration, key, expected, value)
}

func stringList(key string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		result := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, typeError(key, "a list of strings", value)
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, typeError(key, "a list of strings", value)
	}
}

func integer(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, typeError(key, "an integer", value)
		}
		return int(v), nil
	default:
		return 0, typeError(key, "an integer", value)
	}
}
