package label

import (
	"math"
	"math/rand"
)

// Default ensemble configuration constants.
const (
	defaultTreeCount  = 30
	defaultMaxDepth   = 3
	defaultMinLeaf    = 1
	defaultRandomSeed = 42
)

// ForestConfig holds the ensemble hyperparameters. The seed fixes every
// random draw so repeated runs on identical input are byte-identical.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

// DefaultForestConfig returns the standard ensemble configuration.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:    defaultTreeCount,
		MaxDepth: defaultMaxDepth,
		MinLeaf:  defaultMinLeaf,
		Seed:     defaultRandomSeed,
	}
}

// forest is a bagged ensemble of shallow decision trees.
type forest struct {
	trees       []*treeNode
	classCount  int
	importances []float64
}

// fitForest trains the ensemble on standardized rows with integer class
// labels. Each tree sees a bootstrap sample; class-balanced weights
// counter an imbalanced seed set. A single seeded source drives bootstrap
// and feature sampling, so the fit is fully deterministic.
func fitForest(x [][]float64, y []int, classCount int, cfg ForestConfig) *forest {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible labeling

	weights := balancedWeights(y, classCount)
	features := len(x[0])
	treeCfg := treeConfig{
		maxDepth:         cfg.MaxDepth,
		minLeaf:          cfg.MinLeaf,
		featuresPerSplit: int(math.Max(1, math.Round(math.Sqrt(float64(features))))),
	}

	f := &forest{
		trees:       make([]*treeNode, 0, cfg.Trees),
		classCount:  classCount,
		importances: make([]float64, features),
	}

	for t := 0; t < cfg.Trees; t++ {
		bx, by, bw := bootstrap(x, y, weights, rng)
		f.trees = append(f.trees, growTree(bx, by, bw, classCount, treeCfg, rng, f.importances))
	}

	return f
}

// balancedWeights assigns each sample the weight n / (k * n_c) of its
// class, so minority seed categories pull as hard as majority ones.
func balancedWeights(y []int, classCount int) []float64 {
	counts := make([]float64, classCount)
	for _, c := range y {
		counts[c]++
	}

	n := float64(len(y))
	k := float64(classCount)

	weights := make([]float64, len(y))
	for i, c := range y {
		weights[i] = n / (k * counts[c])
	}
	return weights
}

// bootstrap draws len(x) samples with replacement.
func bootstrap(x [][]float64, y []int, w []float64, rng *rand.Rand) ([][]float64, []int, []float64) {
	n := len(x)
	bx := make([][]float64, n)
	by := make([]int, n)
	bw := make([]float64, n)
	for i := 0; i < n; i++ {
		j := rng.Intn(n)
		bx[i] = x[j]
		by[i] = y[j]
		bw[i] = w[j]
	}
	return bx, by, bw
}

// predict averages the class distributions of every tree and returns the
// winning class with its probability.
func (f *forest) predict(row []float64) (class int, confidence float64, probs []float64) {
	probs = make([]float64, f.classCount)
	for _, tree := range f.trees {
		leaf := tree.predict(row)
		for c, p := range leaf {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.trees))
	}

	for c, p := range probs {
		if p > confidence {
			confidence = p
			class = c
		}
	}
	return class, confidence, probs
}

// featureImportances normalizes the accumulated impurity decreases to sum
// to one. An ensemble that never split returns all zeros.
func (f *forest) featureImportances() []float64 {
	total := 0.0
	for _, v := range f.importances {
		total += v
	}

	out := make([]float64, len(f.importances))
	if total == 0 {
		return out
	}
	for i, v := range f.importances {
		out[i] = v / total
	}
	return out
}
