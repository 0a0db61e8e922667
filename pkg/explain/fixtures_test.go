package explain

import (
	"explainer/pkg/model"
	"explainer/pkg/text"
)

var newsgroupDocs = []string{
	"The graphics file format stores each file compressed",
	"Is there a god? The church says religion answers it",
	"The orbit of the space station decays slowly",
}

var newsgroupWeights = map[string][]float64{
	// comp.graphics, sci.space, soc.religion.christian
	"file":       {1.5, -0.2, 0},
	"graphics":   {2.0, 0, -0.4},
	"format":     {0.5, 0, 0},
	"compressed": {0.3, 0, 0},
	"god":        {-1.8, 0, 1.8},
	"church":     {-0.9, 0, 1.1},
	"religion":   {-1.2, -0.1, 1.4},
	"orbit":      {0, 1.5, 0},
	"space":      {-0.3, 2.0, 0},
}

var newsgroupIntercepts = []float64{0.1, -0.3, 0.2}

func newsgroupVectorizer() *text.CountVectorizer {
	return text.Fit(newsgroupDocs, false)
}

// newsgroupCoef builds one coefficient row per class over the vectorizer vocabulary.
func newsgroupCoef(vec *text.CountVectorizer, classes ...int) [][]float64 {
	names := vec.FeatureNames()
	coef := make([][]float64, len(classes))
	for row, class := range classes {
		coef[row] = make([]float64, len(names))
		for i, name := range names {
			if w, ok := newsgroupWeights[name]; ok {
				coef[row][i] = w[class]
			}
		}
	}
	return coef
}

// binaryTextClassifier scores comp.graphics against alt.atheism with a single row.
func binaryTextClassifier(vec *text.CountVectorizer) *model.LinearModel {
	return &model.LinearModel{
		Coef:         newsgroupCoef(vec, 0),
		Intercept:    []float64{0.1},
		FitIntercept: true,
		Classes:      []string{"alt.atheism", "comp.graphics"},
	}
}

func multiclassTextClassifier(vec *text.CountVectorizer) *model.LinearModel {
	return &model.LinearModel{
		Coef:         newsgroupCoef(vec, 0, 1, 2),
		Intercept:    newsgroupIntercepts,
		FitIntercept: true,
		Classes:      []string{"comp.graphics", "sci.space", "soc.religion.christian"},
	}
}

var housingFeatures = []string{"CRIM", "ZN", "INDUS", "RM", "AGE", "LSTAT"}

var housingRows = [][]float64{
	{0.00632, 18.0, 2.31, 6.575, 65.2, 4.98},
	{0.02731, 0.0, 7.07, 6.421, 78.9, 9.14},
	{0.02729, 0.0, 7.07, 7.185, 61.1, 4.03},
	{0.03237, 0.0, 2.18, 6.998, 45.8, 2.94},
	{0.06905, 0.0, 2.18, 7.147, 54.2, 5.33},
}

func housingRegressor(fitIntercept bool) *model.LinearModel {
	m := &model.LinearModel{
		Coef:         [][]float64{{-0.108, 0.046, 0.021, 3.81, 0.0007, -0.525}},
		FitIntercept: fitIntercept,
	}
	if fitIntercept {
		m.Intercept = []float64{36.46}
	}
	return m
}

// multiOutputRegressor has 3 targets over 10 features.
func multiOutputRegressor() (*model.LinearModel, []float64) {
	coef := make([][]float64, 3)
	for k := range coef {
		coef[k] = make([]float64, 10)
		for i := range coef[k] {
			coef[k][i] = float64((k+1)*(i%4)-3) / 2
		}
	}
	x := make([]float64, 10)
	for i := range x {
		x[i] = 0.1*float64(i+1) - 0.45
	}
	return &model.LinearModel{
		Coef:         coef,
		Intercept:    []float64{1, -2, 0.5},
		FitIntercept: true,
	}, x
}

var irisFeatures = []string{"sepal length (cm)", "sepal width (cm)", "petal length (cm)", "petal width (cm)"}

var irisClasses = []string{"setosa", "versicolor", "virginica"}

var irisRows = [][]float64{
	{5.1, 3.5, 1.4, 0.2},
	{6.3, 2.8, 5.1, 1.5},
	{6.4, 3.2, 4.5, 1.5},
	{7.7, 3.0, 6.1, 2.3},
	{5.0, 2.3, 3.3, 1.0},
}

func leaf(value ...float64) model.Node {
	return model.Node{Left: model.Leaf, Right: model.Leaf, Value: value}
}

func split(left, right, feature int, threshold float64, value ...float64) model.Node {
	return model.Node{Left: left, Right: right, Feature: feature, Threshold: threshold, Value: value}
}

func irisTree() *model.Tree {
	return &model.Tree{
		Classification: true,
		Nodes: []model.Node{
			split(1, 2, 2, 2.45, 50, 50, 50),
			leaf(50, 0, 0),
			split(3, 4, 3, 1.75, 0, 50, 50),
			split(5, 6, 2, 4.95, 0, 49, 5),
			leaf(0, 1, 45),
			leaf(0, 47, 1),
			leaf(0, 2, 4),
		},
	}
}

func irisStump() *model.Tree {
	return &model.Tree{
		Classification: true,
		Nodes: []model.Node{
			split(1, 2, 3, 0.8, 40, 45, 45),
			leaf(40, 0, 0),
			leaf(0, 45, 45),
		},
	}
}

func irisSepalTree() *model.Tree {
	return &model.Tree{
		Classification: true,
		Nodes: []model.Node{
			split(1, 2, 0, 5.5, 50, 50, 50),
			split(3, 4, 1, 3.0, 45, 10, 2),
			leaf(5, 40, 48),
			leaf(5, 9, 2),
			leaf(40, 1, 0),
		},
	}
}

func irisForest() *model.Forest {
	return &model.Forest{
		Trees:   []*model.Tree{irisTree(), irisStump(), irisSepalTree()},
		Classes: irisClasses,
	}
}

// binaryIrisTree separates versicolor (class 1) from the rest.
func binaryIrisTree() *model.DecisionTree {
	return &model.DecisionTree{
		Classes: []string{"other", "versicolor"},
		Tree: &model.Tree{
			Classification: true,
			Nodes: []model.Node{
				split(1, 2, 2, 2.45, 100, 50),
				leaf(50, 0),
				split(3, 4, 3, 1.75, 50, 50),
				split(5, 6, 2, 4.95, 5, 49),
				leaf(45, 1),
				leaf(1, 47),
				leaf(4, 2),
			},
		},
	}
}

func regressionStump(feature int, threshold, root, left, right float64) *model.Tree {
	return &model.Tree{
		Nodes: []model.Node{
			split(1, 2, feature, threshold, root),
			leaf(left),
			leaf(right),
		},
	}
}

func boostedRegressor() *model.GradientBoosting {
	return &model.GradientBoosting{
		LearningRate: 0.1,
		Init:         []float64{3},
		Stages: [][]*model.Tree{
			{regressionStump(0, 0, 0.5, -1, 2)},
			{regressionStump(1, 1, -0.1, 0.3, -0.6)},
		},
	}
}

func boostedClassifier() *model.GradientBoosting {
	m := boostedRegressor()
	m.Init = []float64{-0.2}
	m.Classes = []string{"no", "yes"}
	return m
}

func boostedMulticlass() *model.GradientBoosting {
	return &model.GradientBoosting{
		LearningRate: 0.075,
		Init:         []float64{-1.1, -1.1, -1.1},
		Classes:      irisClasses,
		Stages: [][]*model.Tree{
			{
				regressionStump(2, 2.45, 0, 2, -1),
				regressionStump(3, 1.75, 0, 0.5, -1.5),
				regressionStump(3, 1.75, 0, -1, 2),
			},
			{
				regressionStump(2, 2.45, 0.1, 1.8, -0.9),
				regressionStump(2, 4.95, -0.1, 0.7, -1.2),
				regressionStump(2, 4.95, 0.2, -0.8, 1.6),
			},
		},
	}
}

// multiOutputTree predicts 3 targets from 10 features.
func multiOutputTree() *model.DecisionTree {
	return &model.DecisionTree{
		Tree: &model.Tree{
			Nodes: []model.Node{
				split(1, 2, 8, 0.0, 1.0, 2.0, 3.0),
				split(3, 4, 2, -0.1, -2.0, 1.5, 0.5),
				leaf(4.0, 2.5, 5.5),
				leaf(-3.0, 1.0, 0.0),
				leaf(-1.0, 2.0, 1.0),
			},
		},
	}
}
