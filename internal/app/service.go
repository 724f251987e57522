// Package app provides the core service that implements the dependencies
// required by the HTTP API. It re-reads the workbook exports on every view
// request, so dropping a new file into the data directories is all a coach
// has to do to refresh the dashboard.
package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/loadpulse/loadpulse/internal/adapters/ingest"
	"github.com/loadpulse/loadpulse/internal/domain/model"
	"github.com/loadpulse/loadpulse/internal/domain/normalize"
	"github.com/loadpulse/loadpulse/internal/domain/recommend"
	"github.com/loadpulse/loadpulse/internal/domain/types"
	"github.com/loadpulse/loadpulse/internal/domain/wellness"
	"github.com/loadpulse/loadpulse/pkg/logger"
	"github.com/loadpulse/loadpulse/pkg/metrics"
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader         *ingest.Loader
	normalizer     *normalize.Normalizer
	recommender    *recommend.Engine
	wellnessEngine *wellness.Engine

	// Configuration
	accessKey   string
	loadDir     string
	wellnessDir string
	priority    []string
	prioritySet map[string]struct{}

	// Engine knobs, resolved before the engines are built
	minTRIMP        float64
	minMovementLoad float64
	acuteWeight     float64
	hrWeight        float64
	movementWeight  float64
	acwrLower       float64
	acwrUpper       float64
	scoreLower      float64
	scoreUpper      float64
	displayDays     int
	baselineDays    int

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAccessKey sets the shared secret the dashboard login checks against.
func WithAccessKey(key string) Option {
	return func(s *Service) {
		s.accessKey = key
	}
}

// WithLoadDir sets the directory scanned for training load exports.
func WithLoadDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.loadDir = dir
		}
	}
}

// WithWellnessDir sets the directory scanned for wellness survey exports.
func WithWellnessDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.wellnessDir = dir
		}
	}
}

// WithPriorityAthletes pins the named athletes, in the given order, to the
// top of the recommendations table.
func WithPriorityAthletes(names []string) Option {
	return func(s *Service) {
		s.priority = names
	}
}

// WithArtifactFloors sets the TRIMP and movement load floors below which a
// raw export row is discarded as a sensor artifact.
func WithArtifactFloors(minTRIMP, minMovementLoad float64) Option {
	return func(s *Service) {
		if minTRIMP >= 0 {
			s.minTRIMP = minTRIMP
		}
		if minMovementLoad >= 0 {
			s.minMovementLoad = minMovementLoad
		}
	}
}

// WithRatioWeights sets the acute, heart rate and movement weights of the
// adjustment score.
func WithRatioWeights(acute, hr, movement float64) Option {
	return func(s *Service) {
		if acute > 0 && hr > 0 && movement > 0 {
			s.acuteWeight = acute
			s.hrWeight = hr
			s.movementWeight = movement
		}
	}
}

// WithACWRBand sets the ACWR band that maps onto the base label.
func WithACWRBand(lower, upper float64) Option {
	return func(s *Service) {
		if lower > 0 && upper > lower {
			s.acwrLower = lower
			s.acwrUpper = upper
		}
	}
}

// WithScoreBand sets the adjustment score band that tightens a Same label.
func WithScoreBand(lower, upper float64) Option {
	return func(s *Service) {
		if lower > 0 && upper > lower {
			s.scoreLower = lower
			s.scoreUpper = upper
		}
	}
}

// WithWellnessWindows sets the display and baseline window lengths, in days,
// of the wellness grid.
func WithWellnessWindows(displayDays, baselineDays int) Option {
	return func(s *Service) {
		if displayDays > 0 {
			s.displayDays = displayDays
		}
		if baselineDays > 0 {
			s.baselineDays = baselineDays
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		loadDir:         "data/loads",
		wellnessDir:     "data/wellness",
		minTRIMP:        normalize.DefaultMinTRIMP,
		minMovementLoad: normalize.DefaultMinMovementLoad,
		acuteWeight:     recommend.DefaultAcuteWeight,
		hrWeight:        recommend.DefaultHRWeight,
		movementWeight:  recommend.DefaultMovementWeight,
		acwrLower:       recommend.DefaultACWRLower,
		acwrUpper:       recommend.DefaultACWRUpper,
		scoreLower:      recommend.DefaultScoreLower,
		scoreUpper:      recommend.DefaultScoreUpper,
		displayDays:     wellness.DefaultDisplayDays,
		baselineDays:    wellness.DefaultBaselineDays,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.prioritySet = make(map[string]struct{}, len(s.priority))
	for _, name := range s.priority {
		s.prioritySet[name] = struct{}{}
	}

	s.loader = ingest.NewLoader()
	s.normalizer = normalize.New(
		normalize.WithMinTRIMP(s.minTRIMP),
		normalize.WithMinMovementLoad(s.minMovementLoad),
	)
	s.recommender = recommend.New(
		recommend.WithWeights(s.acuteWeight, s.hrWeight, s.movementWeight),
		recommend.WithACWRBounds(s.acwrLower, s.acwrUpper),
		recommend.WithScoreBounds(s.scoreLower, s.scoreUpper),
	)
	s.wellnessEngine = wellness.New(
		wellness.WithDisplayDays(s.displayDays),
		wellness.WithBaselineDays(s.baselineDays),
	)

	return s
}

// Start checks the data directories and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	for _, dir := range []string{s.loadDir, s.wellnessDir} {
		if _, err := os.Stat(dir); err != nil {
			s.logger.Warn(ctx, "data directory not found; views report no data until exports arrive",
				logger.String("dir", dir),
			)
		}
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "dashboard service started",
		logger.String("loadDir", s.loadDir),
		logger.String("wellnessDir", s.wellnessDir),
		logger.Int("priorityAthletes", len(s.priority)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// VerifyAccessKey reports whether key matches the configured shared secret.
// The comparison is constant time. An unconfigured secret matches nothing,
// keeping a misdeployed instance locked rather than open.
func (s *Service) VerifyAccessKey(_ context.Context, key string) bool {
	if s.accessKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.accessKey), []byte(key)) == 1
}

// Recommendations returns one row per athlete, priority athletes first.
func (s *Service) Recommendations(ctx context.Context) ([]types.AthleteRecommendation, error) {
	start := time.Now()

	set, err := s.buildRecommendations(ctx)
	if err != nil {
		return nil, err
	}

	for _, row := range set.rows {
		metrics.RecordRecommendation(row.Label)
	}
	metrics.RecordViewRefresh("recommendations", time.Since(start).Seconds())
	return set.rows, nil
}

// TrainingPlan groups athletes by their recommendation into the printable
// three-column plan. Columns are alphabetical.
func (s *Service) TrainingPlan(ctx context.Context) (types.TrainingPlan, error) {
	start := time.Now()

	set, err := s.buildRecommendations(ctx)
	if err != nil {
		return types.TrainingPlan{}, err
	}

	plan := types.TrainingPlan{
		ReferenceDate: set.latest.Format(types.DateLayout),
		MoreTraining:  make([]string, 0),
		Maintain:      make([]string, 0),
		LessTraining:  make([]string, 0),
	}
	for _, row := range set.rows {
		switch row.Label {
		case string(recommend.LabelMore):
			plan.MoreTraining = append(plan.MoreTraining, row.Athlete)
		case string(recommend.LabelLess):
			plan.LessTraining = append(plan.LessTraining, row.Athlete)
		default:
			plan.Maintain = append(plan.Maintain, row.Athlete)
		}
	}
	sort.Strings(plan.MoreTraining)
	sort.Strings(plan.Maintain)
	sort.Strings(plan.LessTraining)

	metrics.RecordViewRefresh("plan", time.Since(start).Seconds())
	return plan, nil
}

// ACWRSeries returns every athlete-day with a defined ACWR, ordered by date
// then athlete.
func (s *Service) ACWRSeries(ctx context.Context) ([]types.ACWRPoint, error) {
	start := time.Now()

	days, err := s.loadDays(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]types.ACWRPoint, 0, len(days))
	for _, day := range days {
		if day.ACWR == nil {
			continue
		}
		points = append(points, types.ACWRPoint{
			Athlete: day.Athlete,
			Date:    day.Date.Format(types.DateLayout),
			ACWR:    *day.ACWR,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Date != points[j].Date {
			return points[i].Date < points[j].Date
		}
		return points[i].Athlete < points[j].Athlete
	})

	metrics.RecordViewRefresh("acwr", time.Since(start).Seconds())
	return points, nil
}

// WellnessGrid returns the rendered wellness view.
func (s *Service) WellnessGrid(ctx context.Context) (types.WellnessGrid, error) {
	start := time.Now()

	entries, err := s.loader.ReadWellnessDir(ctx, s.wellnessDir)
	if err != nil {
		return types.WellnessGrid{}, err
	}

	grid, err := s.wellnessEngine.BuildGrid(ctx, entries)
	if err != nil {
		// Files that parse to zero survey rows read the same as no files.
		if errors.Is(err, wellness.ErrNoEntries) {
			return types.WellnessGrid{}, fmt.Errorf("%w: no survey rows", ingest.ErrNoInput)
		}
		return types.WellnessGrid{}, err
	}

	out := toWellnessGrid(grid)
	metrics.RecordViewRefresh("wellness", time.Since(start).Seconds())
	return out, nil
}

// AthleteHistory returns one athlete's normalized day-by-day load series,
// oldest first.
func (s *Service) AthleteHistory(ctx context.Context, athlete string) (types.AthleteHistory, error) {
	start := time.Now()

	days, err := s.loadDays(ctx)
	if err != nil {
		return types.AthleteHistory{}, err
	}

	series, ok := normalize.ByAthlete(days)[athlete]
	if !ok {
		return types.AthleteHistory{}, fmt.Errorf("athlete %q: %w", athlete, ErrUnknownAthlete)
	}

	out := types.AthleteHistory{
		Athlete: athlete,
		Days:    make([]types.LoadDay, 0, len(series)),
	}
	for _, day := range series {
		conv := types.LoadDay{
			Date:             day.Date.Format(types.DateLayout),
			TRIMP:            day.TRIMP,
			MovementLoad:     day.MovementLoad,
			AnaerobicZoneMin: day.AnaerobicZoneMin,
			HighIntensityMin: day.HighIntensityMin,
			HRMin80:          day.HRMin80,
			AcuteLoad:        day.AcuteLoad,
			ChronicLoad:      day.ChronicLoad,
			TrainingStatus:   day.TrainingStatus,
		}
		if day.ACWR != nil {
			v := *day.ACWR
			conv.ACWR = &v
		}
		out.Days = append(out.Days, conv)
	}

	metrics.RecordViewRefresh("athlete_loads", time.Since(start).Seconds())
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	startedAt := s.startedAt
	s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          started,
		"loadDir":          s.loadDir,
		"wellnessDir":      s.wellnessDir,
		"priorityAthletes": len(s.priority),
	}
	if started {
		stats["uptimeSeconds"] = int64(time.Since(startedAt).Seconds())
	}

	if days, err := s.loadDays(ctx); err == nil {
		stats["athletes"] = len(normalize.Athletes(days))
		stats["loadDays"] = len(days)
	}
	if entries, err := s.loader.ReadWellnessDir(ctx, s.wellnessDir); err == nil {
		stats["wellnessRows"] = len(entries)
	}

	return stats
}

// recommendationSet carries the table rows plus the squad-wide most recent
// training day, which the plan view uses as its reference date.
type recommendationSet struct {
	rows   []types.AthleteRecommendation
	latest time.Time
}

func (s *Service) buildRecommendations(ctx context.Context) (recommendationSet, error) {
	days, err := s.loadDays(ctx)
	if err != nil {
		return recommendationSet{}, err
	}

	series := normalize.ByAthlete(days)
	names := normalize.Athletes(days)

	set := recommendationSet{rows: make([]types.AthleteRecommendation, 0, len(names))}
	for _, name := range names {
		rec, err := s.recommender.Recommend(ctx, series[name])
		if err != nil {
			return recommendationSet{}, fmt.Errorf("recommend %s: %w", name, err)
		}
		set.rows = append(set.rows, s.toRecommendation(rec))
		if rec.ReferenceDate.After(set.latest) {
			set.latest = rec.ReferenceDate
		}
	}

	s.pinPriority(set.rows)
	return set, nil
}

// loadDays reads and normalizes the full load export set.
func (s *Service) loadDays(ctx context.Context) ([]model.LoadRecord, error) {
	records, err := s.loader.ReadLoadDir(ctx, s.loadDir)
	if err != nil {
		return nil, err
	}
	days := s.normalizer.Normalize(ctx, records)
	metrics.UpdateAthletesTracked(len(normalize.Athletes(days)))
	return days, nil
}

func (s *Service) toRecommendation(rec recommend.Recommendation) types.AthleteRecommendation {
	_, priority := s.prioritySet[rec.Athlete]
	out := types.AthleteRecommendation{
		Athlete:      rec.Athlete,
		Label:        string(rec.Label),
		BaseLabel:    string(rec.BaseLabel),
		LastTraining: rec.ReferenceDate.Format(types.DateLayout),
		Priority:     priority,
	}
	if rec.ACWR != nil {
		v := *rec.ACWR
		out.ACWR = &v
	}
	if rec.ScoreValid {
		score, acute, hr, movement := rec.AdjustmentScore, rec.AcuteRatio, rec.HRRatio, rec.MovementRatio
		out.AdjustmentScore = &score
		out.AcuteRatio = &acute
		out.HRRatio = &hr
		out.MovementRatio = &movement
	}
	return out
}

// pinPriority moves priority athletes, in their configured order, ahead of
// the rest. The remainder keeps its alphabetical order.
func (s *Service) pinPriority(rows []types.AthleteRecommendation) {
	if len(s.priority) == 0 {
		return
	}
	rank := make(map[string]int, len(s.priority))
	for i, name := range s.priority {
		rank[name] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, iPinned := rank[rows[i].Athlete]
		rj, jPinned := rank[rows[j].Athlete]
		if iPinned && jPinned {
			return ri < rj
		}
		return iPinned && !jPinned
	})
}

func toWellnessGrid(grid wellness.Grid) types.WellnessGrid {
	out := types.WellnessGrid{
		Anchor:       grid.Anchor.Format(types.DateLayout),
		DisplayStart: grid.DisplayStart.Format(types.DateLayout),
		Dates:        make([]string, 0, len(grid.Dates)),
		Metrics:      grid.Metrics,
		Rows:         make([]types.WellnessRow, 0, len(grid.Rows)),
	}
	for _, d := range grid.Dates {
		out.Dates = append(out.Dates, d.Format(types.DateLayout))
	}
	for _, row := range grid.Rows {
		conv := types.WellnessRow{
			Athlete: row.Athlete,
			Metric:  row.Metric,
			Team:    row.Team,
			Cells:   make([]types.WellnessCell, 0, len(row.Cells)),
		}
		if row.Baseline.Mean != nil {
			v := *row.Baseline.Mean
			conv.BaselineMean = &v
		}
		if row.Baseline.Std != nil {
			v := *row.Baseline.Std
			conv.BaselineStd = &v
		}
		for _, cell := range row.Cells {
			c := types.WellnessCell{
				Date:  cell.Date.Format(types.DateLayout),
				Class: string(cell.Class),
			}
			if cell.Value != nil {
				v := *cell.Value
				c.Value = &v
			}
			conv.Cells = append(conv.Cells, c)
		}
		out.Rows = append(out.Rows, conv)
	}
	return out
}
