package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is a fitted linear estimator: decision = Coef · x + Intercept.
//
// Coef holds one row per output. Regressors have one row per target, multiclass
// classifiers one row per class and binary classifiers a single row scoring
// Classes[1] against Classes[0].
type LinearModel struct {
	Coef         [][]float64 `yaml:"coef"`
	Intercept    []float64   `yaml:"intercept,omitempty"`
	FitIntercept bool        `yaml:"fit_intercept"`
	Classes      []string    `yaml:"classes,omitempty"`
}

// Validate checks that the parameters describe a consistent model.
func (m *LinearModel) Validate() error {
	if len(m.Coef) == 0 {
		return fmt.Errorf("linear model has no coefficients")
	}
	n := len(m.Coef[0])
	if n == 0 {
		return fmt.Errorf("linear model has no features")
	}
	for i, row := range m.Coef {
		if len(row) != n {
			return fmt.Errorf("coefficient row %d has %d entries, expected %d", i, len(row), n)
		}
	}
	if m.FitIntercept && len(m.Intercept) != len(m.Coef) {
		return fmt.Errorf("got %d intercepts for %d coefficient rows", len(m.Intercept), len(m.Coef))
	}
	if len(m.Classes) > 0 && len(m.Classes) != len(m.Coef) && !(len(m.Classes) == 2 && len(m.Coef) == 1) {
		return fmt.Errorf("got %d classes for %d coefficient rows", len(m.Classes), len(m.Coef))
	}
	return nil
}

func (m *LinearModel) NumFeatures() int {
	if len(m.Coef) == 0 {
		return 0
	}
	return len(m.Coef[0])
}

// Coefficients returns the coefficient rows as a dense matrix.
func (m *LinearModel) Coefficients() mat.Matrix {
	rows, cols := len(m.Coef), m.NumFeatures()
	data := make([]float64, 0, rows*cols)
	for _, row := range m.Coef {
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data)
}

// Intercepts returns one intercept per coefficient row, or nil if the model has none.
func (m *LinearModel) Intercepts() []float64 {
	if !m.FitIntercept {
		return nil
	}
	return m.Intercept
}

func (m *LinearModel) HasIntercept() bool {
	return m.FitIntercept
}

// Decision computes the raw decision value of every coefficient row.
func (m *LinearModel) Decision(x []float64) []float64 {
	return decision(m.Coefficients(), m.Intercepts(), x)
}

func (m *LinearModel) TargetLabels() []string {
	if len(m.Classes) > 0 {
		return m.Classes
	}
	return OutputLabels(len(m.Coef))
}

// OneVsRest combines one binary linear estimator per class.
// With two classes a single estimator scores Classes[1].
type OneVsRest struct {
	Estimators []*LinearModel `yaml:"estimators"`
	Classes    []string       `yaml:"classes"`
}

func (m *OneVsRest) Validate() error {
	if len(m.Estimators) == 0 {
		return fmt.Errorf("one-vs-rest model has no estimators")
	}
	if len(m.Estimators) != len(m.Classes) && !(len(m.Classes) == 2 && len(m.Estimators) == 1) {
		return fmt.Errorf("got %d estimators for %d classes", len(m.Estimators), len(m.Classes))
	}
	n := m.Estimators[0].NumFeatures()
	for i, e := range m.Estimators {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("estimator %d: %w", i, err)
		}
		if len(e.Coef) != 1 {
			return fmt.Errorf("estimator %d has %d coefficient rows, expected 1", i, len(e.Coef))
		}
		if e.NumFeatures() != n {
			return fmt.Errorf("estimator %d has %d features, expected %d", i, e.NumFeatures(), n)
		}
	}
	return nil
}

func (m *OneVsRest) Coefficients() mat.Matrix {
	n := m.Estimators[0].NumFeatures()
	coef := mat.NewDense(len(m.Estimators), n, nil)
	for i, e := range m.Estimators {
		coef.SetRow(i, e.Coef[0])
	}
	return coef
}

func (m *OneVsRest) Intercepts() []float64 {
	if !m.HasIntercept() {
		return nil
	}
	result := make([]float64, len(m.Estimators))
	for i, e := range m.Estimators {
		if e.FitIntercept {
			result[i] = e.Intercept[0]
		}
	}
	return result
}

func (m *OneVsRest) HasIntercept() bool {
	for _, e := range m.Estimators {
		if e.FitIntercept {
			return true
		}
	}
	return false
}

func (m *OneVsRest) Decision(x []float64) []float64 {
	return decision(m.Coefficients(), m.Intercepts(), x)
}

func (m *OneVsRest) TargetLabels() []string {
	return m.Classes
}

func decision(coef mat.Matrix, intercepts []float64, x []float64) []float64 {
	rows, _ := coef.Dims()
	var scores mat.VecDense
	scores.MulVec(coef, mat.NewVecDense(len(x), x))
	result := make([]float64, rows)
	for i := range result {
		result[i] = scores.AtVec(i)
		if intercepts != nil {
			result[i] += intercepts[i]
		}
	}
	return result
}
