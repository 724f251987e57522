// Package recommend derives a per-athlete training adjustment from the
// athlete's own load history.
package recommend

import (
	"context"
	"time"

	model "github.com/loadpulse/loadpulse/internal/domain/model"
)

// Default engine configuration constants.
const (
	DefaultAcuteWeight    = 0.4
	DefaultHRWeight       = 0.3
	DefaultMovementWeight = 0.3
	DefaultACWRLower      = 1.0
	DefaultACWRUpper      = 1.3
	DefaultScoreLower     = 0.8
	DefaultScoreUpper     = 1.2
)

// Label is the categorical training adjustment shown to coaches.
type Label string

// Canonical label values.
const (
	LabelMore Label = "More"
	LabelSame Label = "Same"
	LabelLess Label = "Less"
)

// Recommendation is the engine output for one athlete: the final label
// plus every intermediate used to reach it, kept for display and debugging.
type Recommendation struct {
	Athlete         string
	Label           Label
	BaseLabel       Label
	ACWR            *float64
	AcuteRatio      float64
	HRRatio         float64
	MovementRatio   float64
	AdjustmentScore float64
	// ScoreValid is false when a historical mean was non-positive and the
	// ratios were therefore undefined; the label then stays at BaseLabel.
	ScoreValid    bool
	ReferenceDate time.Time
}

// Engine computes recommendations. The ACWR band picks a base label, and a
// weighted ratio of the most recent day against the athlete's own history
// may tighten a Same into More or Less.
type Engine struct {
	acuteWeight    float64
	hrWeight       float64
	movementWeight float64
	acwrLower      float64
	acwrUpper      float64
	scoreLower     float64
	scoreUpper     float64
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		acuteWeight:    DefaultAcuteWeight,
		hrWeight:       DefaultHRWeight,
		movementWeight: DefaultMovementWeight,
		acwrLower:      DefaultACWRLower,
		acwrUpper:      DefaultACWRUpper,
		scoreLower:     DefaultScoreLower,
		scoreUpper:     DefaultScoreUpper,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Recommend computes the adjustment for one athlete from their full
// normalized history. The most recent record is compared against means
// taken over the whole history, recent day included.
func (e *Engine) Recommend(ctx context.Context, history []model.LoadRecord) (Recommendation, error) {
	if len(history) == 0 {
		return Recommendation{}, ErrNoHistory
	}

	recent := history[0]
	for _, rec := range history[1:] {
		if rec.Date.After(recent.Date) {
			recent = rec
		}
	}

	var sumAcute, sumHR, sumMovement float64
	for _, rec := range history {
		sumAcute += rec.AcuteLoad
		sumHR += rec.HRMin80
		sumMovement += rec.MovementLoad
	}
	n := float64(len(history))
	meanAcute := sumAcute / n
	meanHR := sumHR / n
	meanMovement := sumMovement / n

	base := e.baseLabel(recent.ACWR)
	out := Recommendation{
		Athlete:       recent.Athlete,
		Label:         base,
		BaseLabel:     base,
		ReferenceDate: recent.Date,
	}
	if recent.ACWR != nil {
		v := *recent.ACWR
		out.ACWR = &v
	}

	// A non-positive mean makes the ratios undefined. Keep the base label
	// and report the score as invalid instead of emitting NaN or Inf.
	if meanAcute <= 0 || meanHR <= 0 || meanMovement <= 0 {
		return out, nil
	}

	out.AcuteRatio = recent.AcuteLoad / meanAcute
	out.HRRatio = recent.HRMin80 / meanHR
	out.MovementRatio = recent.MovementLoad / meanMovement
	out.AdjustmentScore = e.acuteWeight*out.AcuteRatio +
		e.hrWeight*out.HRRatio +
		e.movementWeight*out.MovementRatio
	out.ScoreValid = true

	if base == LabelSame {
		switch {
		case out.AdjustmentScore < e.scoreLower:
			out.Label = LabelMore
		case out.AdjustmentScore > e.scoreUpper:
			out.Label = LabelLess
		}
	}

	return out, nil
}

// baseLabel maps the most recent ACWR onto the band label. Both band edges
// belong to Same.
func (e *Engine) baseLabel(acwr *float64) Label {
	switch {
	case acwr == nil:
		return LabelSame
	case *acwr < e.acwrLower:
		return LabelMore
	case *acwr > e.acwrUpper:
		return LabelLess
	default:
		return LabelSame
	}
}
