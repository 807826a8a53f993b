// Package service orchestrates the season profiling pipeline: it drives
// the event source, feeds the domain stages, and assembles the final
// labeled report.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/okian/stint/internal/adapters/provider"
	"github.com/okian/stint/internal/domain/incident"
	"github.com/okian/stint/internal/domain/label"
	"github.com/okian/stint/internal/domain/model"
	"github.com/okian/stint/internal/domain/peer"
	"github.com/okian/stint/internal/domain/profile"
	"github.com/okian/stint/internal/domain/risk"
	"github.com/okian/stint/pkg/logger"
	"github.com/okian/stint/pkg/metrics"
)

// Default output precision in decimal places.
const defaultPrecision = 4

// Service runs the profiling pipeline for one season.
type Service struct {
	categories  []string
	assignments peer.Assignments
	seeds       label.SeedSet

	weights   incident.Weights
	forestCfg label.ForestConfig
	precision int
	now       func() time.Time

	logger logger.Logger
}

// Outcome bundles a run summary with its per-competitor rows.
type Outcome struct {
	Summary model.Summary
	Results []model.LabeledResult
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWeights overrides the incident severity table.
func WithWeights(w incident.Weights) Option {
	return func(s *Service) { s.weights = w }
}

// WithForestConfig overrides the ensemble hyperparameters.
func WithForestConfig(cfg label.ForestConfig) Option {
	return func(s *Service) { s.forestCfg = cfg }
}

// WithPrecision sets the number of decimal places in the output.
func WithPrecision(precision int) Option {
	return func(s *Service) {
		if precision >= 0 {
			s.precision = precision
		}
	}
}

// WithClock overrides the completed-event cutoff clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger instance.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a pipeline service. The peer assignment table is validated
// here; seed labels are validated against the profile table during Run,
// once the competitor set is known.
func New(categories []string, assignments peer.Assignments, seeds label.SeedSet, opts ...Option) (*Service, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidInputs)
	}
	if err := assignments.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInputs, err)
	}

	s := &Service{
		categories:  append([]string(nil), categories...),
		assignments: assignments,
		seeds:       seeds,
		weights:     incident.DefaultWeights(),
		forestCfg:   label.DefaultForestConfig(),
		precision:   defaultPrecision,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run processes every completed event of the season and labels the
// resulting profile table. A failed event load degrades the run rather
// than aborting it; an unavailable schedule or invalid seed set is
// fatal.
func (s *Service) Run(ctx context.Context, source provider.Source, season int) (*Outcome, error) {
	runID := uuid.New().String()

	// The global logger is resolved here rather than in New so that
	// construction never depends on process-wide logger state.
	if s.logger == nil {
		s.logger = logger.Get()
	}
	log := s.logger.Named("pipeline")

	refs, err := source.Events(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list season %d events: %w", season, err)
	}
	completed := provider.Completed(refs, s.now())

	log.Info(ctx, "starting run",
		logger.String("run_id", runID),
		logger.Int("season", season),
		logger.Int("scheduled", len(refs)),
		logger.Int("completed", len(completed)))

	aggregator := risk.NewAggregator(risk.WithWeights(s.weights))
	classifier := incident.NewClassifier(incident.WithWeights(s.weights))
	calculator := peer.NewCalculator(s.assignments)
	builder := profile.NewBuilder()

	processed, skipped := 0, 0
	for _, ref := range completed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		qualifying, qErr := source.Load(ctx, season, ref, model.SessionQualifying)
		race, rErr := source.Load(ctx, season, ref, model.SessionRace)
		if qErr != nil || rErr != nil {
			// One broken event must not sink the season.
			skipped++
			metrics.RecordEventSkipped()
			log.Warn(ctx, "skipping event",
				logger.String("event", ref.ID),
				logger.Error(firstErr(qErr, rErr)))
			continue
		}
		metrics.RecordSessionLoaded()
		metrics.RecordSessionLoaded()

		s.ingestEvent(ctx, ref, qualifying, race, classifier, aggregator, calculator, builder)

		processed++
		metrics.RecordEventProcessed()
	}

	profiles := builder.Profiles(aggregator.Rows(), calculator)
	metrics.UpdateCompetitorsProfiled(len(profiles))

	summary := model.Summary{
		RunID:           runID,
		Season:          season,
		Competitors:     len(profiles),
		EventsProcessed: processed,
		EventsSkipped:   skipped,
	}

	// A season with no completed events is a valid, empty run.
	if len(profiles) == 0 {
		log.Info(ctx, "no profiles built", logger.String("run_id", runID))
		return &Outcome{Summary: summary}, nil
	}

	labeler := label.NewClassifier(s.categories, label.WithForestConfig(s.forestCfg))
	outcome, err := labeler.Run(profiles, s.seeds)
	if err != nil {
		return nil, fmt.Errorf("label profiles: %w", err)
	}

	summary.SeedCount = outcome.SeedCount
	summary.PredictedCount = outcome.PredictedCount
	summary.TrainingAccuracy = s.round(outcome.TrainingAccuracy)
	summary.FeatureImportance = s.roundImportances(outcome.Importances)

	metrics.UpdateSeedCount(outcome.SeedCount)
	metrics.UpdateTrainingAccuracy(outcome.TrainingAccuracy)
	for i := 0; i < outcome.PredictedCount; i++ {
		metrics.RecordPrediction()
	}

	results := make([]model.LabeledResult, len(outcome.Results))
	for i, r := range outcome.Results {
		r.Confidence = s.round(r.Confidence)
		r.Profile = s.roundProfile(r.Profile)
		results[i] = r
	}

	log.Info(ctx, "run complete",
		logger.String("run_id", runID),
		logger.Int("competitors", summary.Competitors),
		logger.Int("seeds", summary.SeedCount),
		logger.Int("predicted", summary.PredictedCount),
		logger.Float64("training_accuracy", summary.TrainingAccuracy),
		logger.Int("events_skipped", skipped))

	return &Outcome{Summary: summary, Results: results}, nil
}

// ingestEvent feeds one completed event through the message, peer, and
// profile stages.
func (s *Service) ingestEvent(
	ctx context.Context,
	ref model.EventRef,
	qualifying, race model.SessionData,
	classifier *incident.Classifier,
	aggregator *risk.Aggregator,
	calculator *peer.Calculator,
	builder *profile.Builder,
) {
	numbers := incident.NumberTable(race.Results)
	for number, code := range incident.NumberTable(qualifying.Results) {
		if _, ok := numbers[number]; !ok {
			numbers[number] = code
		}
	}

	s.ingestMessages(ctx, ref, qualifying.Messages, numbers, classifier, aggregator)
	s.ingestMessages(ctx, ref, race.Messages, numbers, classifier, aggregator)

	for _, r := range qualifying.Results {
		calculator.AddQualifyingResult(ref.ID, r)
	}
	for _, r := range race.Results {
		calculator.AddRaceResult(ref.ID, r)
	}

	lapsByCode := make(map[string][]float64)
	for _, lap := range race.Laps {
		if lap.Pit {
			continue
		}
		lapsByCode[lap.Code] = append(lapsByCode[lap.Code], lap.Seconds)
	}
	for code, seconds := range lapsByCode {
		calculator.AddRaceLaps(ref.ID, code, seconds)
	}

	builder.AddEvent(race)
}

// ingestMessages classifies one session's officiating feed into the
// risk aggregator. Messages that cannot be attributed to a competitor
// are counted and dropped.
func (s *Service) ingestMessages(
	ctx context.Context,
	ref model.EventRef,
	messages []model.Message,
	numbers map[int]string,
	classifier *incident.Classifier,
	aggregator *risk.Aggregator,
) {
	for _, msg := range messages {
		if incident.IsNoise(msg.Text) {
			metrics.RecordMessageNoise()
			continue
		}

		code, attributed := incident.Resolve(msg, numbers)

		if incident.IsTrackLimitDeletion(msg.Text) {
			if !attributed {
				metrics.RecordMessageUnresolved()
				continue
			}
			aggregator.AddTrackLimitDeletion(code)
			metrics.RecordTrackLimitDeletion()
			continue
		}

		inc, ok := classifier.Classify(msg.Text)
		if !ok {
			continue
		}
		metrics.RecordMessageClassified()

		if !attributed {
			metrics.RecordMessageUnresolved()
			s.logger.Debug(ctx, "unattributed incident",
				logger.String("event", ref.ID),
				logger.String("kind", string(inc.Kind)),
				logger.String("text", msg.Text))
			continue
		}
		aggregator.Add(code, inc)
		metrics.RecordIncident(string(inc.Kind))
	}
}

func (s *Service) round(v float64) float64 {
	factor := math.Pow(10, float64(s.precision))
	return math.Round(v*factor) / factor
}

func (s *Service) roundProfile(p model.Profile) model.Profile {
	p.RiskScore = s.round(p.RiskScore)
	p.PointsDelta = s.round(p.PointsDelta)
	p.QualifyingDelta = s.round(p.QualifyingDelta)
	p.RacePaceDelta = s.round(p.RacePaceDelta)
	p.PositionDelta = s.round(p.PositionDelta)
	p.Consistency = s.round(p.Consistency)
	p.PositionChange = s.round(p.PositionChange)
	p.TyreWearSlope = s.round(p.TyreWearSlope)
	return p
}

func (s *Service) roundImportances(ranked []model.FeatureWeight) []model.FeatureWeight {
	out := make([]model.FeatureWeight, len(ranked))
	for i, fw := range ranked {
		out[i] = model.FeatureWeight{Feature: fw.Feature, Weight: s.round(fw.Weight)}
	}
	return out
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
