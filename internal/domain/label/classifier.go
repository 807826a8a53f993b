package label

import (
	"sort"

	"github.com/okian/stint/internal/domain/model"
)

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithForestConfig overrides the ensemble hyperparameters.
func WithForestConfig(cfg ForestConfig) Option {
	return func(c *Classifier) {
		if cfg.Trees > 0 && cfg.MaxDepth > 0 && cfg.MinLeaf > 0 {
			c.forestCfg = cfg
		}
	}
}

// Classifier propagates seed labels to the full profile table.
type Classifier struct {
	categories []string
	forestCfg  ForestConfig
}

// Outcome is the result of one labeling pass.
type Outcome struct {
	Results          []model.LabeledResult
	SeedCount        int
	PredictedCount   int
	TrainingAccuracy float64
	Importances      []model.FeatureWeight // sorted by weight, descending
}

// NewClassifier creates a classifier over a closed category list.
func NewClassifier(categories []string, opts ...Option) *Classifier {
	c := &Classifier{
		categories: append([]string(nil), categories...),
		forestCfg:  DefaultForestConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run validates the seed set, fits the ensemble on the seeded rows and
// predicts a category with confidence for every unseeded row. Seed rows
// pass through with their original category and confidence 1.0. Profiles
// are processed in code order, so identical input yields identical output.
func (c *Classifier) Run(profiles []model.Profile, seeds SeedSet) (*Outcome, error) {
	if err := seeds.Validate(c.categories, profiles); err != nil {
		return nil, err
	}

	ordered := append([]model.Profile(nil), profiles...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Code < ordered[j].Code })

	classIndex := make(map[string]int, len(c.categories))
	for i, category := range c.categories {
		classIndex[category] = i
	}

	var seeded, unseeded []model.Profile
	for _, p := range ordered {
		if _, ok := seeds[p.Code]; ok {
			seeded = append(seeded, p)
		} else {
			unseeded = append(unseeded, p)
		}
	}

	// Standardization statistics come from the seeded rows only.
	trainRows := make([][]float64, len(seeded))
	trainClasses := make([]int, len(seeded))
	for i, p := range seeded {
		trainRows[i] = p.Features()
		trainClasses[i] = classIndex[seeds[p.Code]]
	}

	sc := fitScaler(trainRows)
	for i, row := range trainRows {
		trainRows[i] = sc.transform(row)
	}

	f := fitForest(trainRows, trainClasses, len(c.categories), c.forestCfg)

	correct := 0
	for i, row := range trainRows {
		class, _, _ := f.predict(row)
		if class == trainClasses[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(trainRows))

	results := make([]model.LabeledResult, 0, len(ordered))
	for _, p := range seeded {
		results = append(results, model.LabeledResult{
			Code:       p.Code,
			Category:   seeds[p.Code],
			Confidence: 1.0,
			Seed:       true,
			Profile:    p,
		})
	}
	for _, p := range unseeded {
		class, confidence, _ := f.predict(sc.transform(p.Features()))
		results = append(results, model.LabeledResult{
			Code:       p.Code,
			Category:   c.categories[class],
			Confidence: confidence,
			Profile:    p,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Code < results[j].Code })

	return &Outcome{
		Results:          results,
		SeedCount:        len(seeded),
		PredictedCount:   len(unseeded),
		TrainingAccuracy: accuracy,
		Importances:      c.rankedImportances(f),
	}, nil
}

// rankedImportances pairs the ensemble's importances with feature names,
// sorted by weight then name for a stable ranking.
func (c *Classifier) rankedImportances(f *forest) []model.FeatureWeight {
	raw := f.featureImportances()

	ranked := make([]model.FeatureWeight, len(raw))
	for i, w := range raw {
		ranked[i] = model.FeatureWeight{Feature: model.FeatureNames[i], Weight: w}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Feature < ranked[j].Feature
	})

	return ranked
}
