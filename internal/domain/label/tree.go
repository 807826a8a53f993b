package label

import (
	"math"
	"math/rand"
	"sort"
)

// treeConfig bounds the growth of a single decision tree.
type treeConfig struct {
	maxDepth         int
	minLeaf          int
	featuresPerSplit int
}

// treeNode is one node of a fitted decision tree. Leaf nodes carry the
// weighted class distribution of the samples that reached them.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	leaf      bool
	probs     []float64
}

// growTree fits a shallow decision tree on standardized samples using
// weighted Gini impurity splits. Impurity decrease is accumulated per
// feature into importances, which the caller shares across the ensemble.
func growTree(x [][]float64, y []int, w []float64, classCount int, cfg treeConfig, rng *rand.Rand, importances []float64) *treeNode {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	return growNode(x, y, w, idx, classCount, cfg, rng, importances, 0)
}

func growNode(x [][]float64, y []int, w []float64, idx []int, classCount int, cfg treeConfig, rng *rand.Rand, importances []float64, depth int) *treeNode {
	probs, impurity, total := classDistribution(y, w, idx, classCount)

	if depth >= cfg.maxDepth || impurity == 0 || len(idx) < 2*cfg.minLeaf {
		return &treeNode{leaf: true, probs: probs}
	}

	feature, threshold, decrease, leftIdx, rightIdx := bestSplit(x, y, w, idx, classCount, cfg, rng)
	if feature < 0 {
		return &treeNode{leaf: true, probs: probs}
	}

	importances[feature] += total * decrease

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growNode(x, y, w, leftIdx, classCount, cfg, rng, importances, depth+1),
		right:     growNode(x, y, w, rightIdx, classCount, cfg, rng, importances, depth+1),
	}
}

// classDistribution returns the weighted class probabilities, the Gini
// impurity and the total weight of a sample subset.
func classDistribution(y []int, w []float64, idx []int, classCount int) (probs []float64, impurity, total float64) {
	probs = make([]float64, classCount)
	for _, i := range idx {
		probs[y[i]] += w[i]
		total += w[i]
	}

	impurity = 1.0
	if total > 0 {
		for c := range probs {
			probs[c] /= total
			impurity -= probs[c] * probs[c]
		}
	} else {
		impurity = 0
	}
	return probs, impurity, total
}

// bestSplit searches a random feature subset for the threshold with the
// largest weighted impurity decrease. It returns feature -1 when no split
// satisfies the minimum leaf size.
func bestSplit(x [][]float64, y []int, w []float64, idx []int, classCount int, cfg treeConfig, rng *rand.Rand) (feature int, threshold, decrease float64, leftIdx, rightIdx []int) {
	_, parentImpurity, parentWeight := classDistribution(y, w, idx, classCount)

	feature = -1
	bestScore := math.Inf(-1)

	for _, f := range sampleFeatures(len(x[0]), cfg.featuresPerSplit, rng) {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, x[i][f])
		}
		sort.Float64s(values)

		for v := 0; v+1 < len(values); v++ {
			if values[v] == values[v+1] {
				continue
			}
			cut := (values[v] + values[v+1]) / 2

			left := make([]int, 0, len(idx))
			right := make([]int, 0, len(idx))
			for _, i := range idx {
				if x[i][f] <= cut {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			if len(left) < cfg.minLeaf || len(right) < cfg.minLeaf {
				continue
			}

			_, leftImpurity, leftWeight := classDistribution(y, w, left, classCount)
			_, rightImpurity, rightWeight := classDistribution(y, w, right, classCount)

			gain := parentImpurity
			if parentWeight > 0 {
				gain -= (leftWeight/parentWeight)*leftImpurity + (rightWeight/parentWeight)*rightImpurity
			}

			if gain > bestScore {
				bestScore = gain
				feature = f
				threshold = cut
				decrease = gain
				leftIdx = left
				rightIdx = right
			}
		}
	}

	if feature < 0 || bestScore <= 0 {
		return -1, 0, 0, nil, nil
	}
	return feature, threshold, decrease, leftIdx, rightIdx
}

// sampleFeatures draws a random subset of feature indices without
// replacement, in draw order.
func sampleFeatures(total, count int, rng *rand.Rand) []int {
	if count >= total {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all
	}

	perm := rng.Perm(total)
	return perm[:count]
}

// predict walks the tree for one standardized feature vector.
func (n *treeNode) predict(row []float64) []float64 {
	node := n
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.probs
}
