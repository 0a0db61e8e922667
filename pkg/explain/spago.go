package explain

import (
	"github.com/nlpodyssey/spago/pkg/ml/nn/linear"
	"gonum.org/v1/gonum/mat"
)

var (
	_ Linear            = &spagoLinear{}
	_ InterceptReporter = &spagoLinear{}
)

// spagoLinear exposes a spago linear layer (y = W·x + B) as a Linear model:
// every row of W is one output.
type spagoLinear struct {
	layer *linear.Model
}

func isSpagoLinear(m interface{}) bool {
	layer, ok := m.(*linear.Model)
	return ok && layer != nil && layer.W != nil
}

func adaptSpagoLinear(m interface{}) interface{} {
	return &spagoLinear{layer: m.(*linear.Model)}
}

func (s *spagoLinear) Coefficients() mat.Matrix {
	w := s.layer.W.Value()
	data := make([]float64, len(w.Data()))
	copy(data, w.Data())
	return mat.NewDense(w.Rows(), w.Columns(), data)
}

func (s *spagoLinear) Intercepts() []float64 {
	if s.layer.B == nil {
		return nil
	}
	b := s.layer.B.Value().Data()
	result := make([]float64, len(b))
	copy(result, b)
	return result
}

func (s *spagoLinear) HasIntercept() bool {
	return s.layer.B != nil
}

func (s *spagoLinear) Decision(x []float64) []float64 {
	var y mat.VecDense
	y.MulVec(s.Coefficients(), mat.NewVecDense(len(x), x))
	if b := s.Intercepts(); b != nil {
		y.AddVec(&y, mat.NewVecDense(len(b), b))
	}
	return y.RawVector().Data
}
