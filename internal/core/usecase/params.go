package usecase

import "time"

// AnalysisParams carries every externally tunable knob of the pipeline.
// Nothing here is hardcoded into component logic; config supplies values and
// normalize fills defaults for anything left zero.
type AnalysisParams struct {
	// Gap priority thresholds on category completeness.
	CriticalThreshold float64
	HighThreshold     float64

	// Token-overlap threshold for treating two same-question findings as
	// candidates for conflict detection.
	DedupSimilarity float64

	// Fan-out limits for per-document classification.
	MaxConcurrentCalls int
	CallsPerMinute     int
	CallTimeout        time.Duration

	// Per-category criticality weight overrides, keyed by category key.
	WeightOverrides map[string]float64
}

func DefaultParams() AnalysisParams {
	return AnalysisParams{
		CriticalThreshold:  0.3,
		HighThreshold:      0.6,
		DedupSimilarity:    0.6,
		MaxConcurrentCalls: 4,
		CallsPerMinute:     60,
		CallTimeout:        90 * time.Second,
	}
}

func (p AnalysisParams) normalize() AnalysisParams {
	out := p
	def := DefaultParams()

	if out.CriticalThreshold <= 0 || out.CriticalThreshold >= 1 {
		out.CriticalThreshold = def.CriticalThreshold
	}
	if out.HighThreshold <= out.CriticalThreshold || out.HighThreshold >= 1 {
		out.HighThreshold = def.HighThreshold
	}
	if out.DedupSimilarity <= 0 || out.DedupSimilarity > 1 {
		out.DedupSimilarity = def.DedupSimilarity
	}
	if out.MaxConcurrentCalls <= 0 {
		out.MaxConcurrentCalls = def.MaxConcurrentCalls
	}
	if out.CallsPerMinute <= 0 {
		out.CallsPerMinute = def.CallsPerMinute
	}
	if out.CallTimeout <= 0 {
		out.CallTimeout = def.CallTimeout
	}
	return out
}

func (p AnalysisParams) categoryWeight(key string, fallback float64) float64 {
	if p.WeightOverrides != nil {
		if w, ok := p.WeightOverrides[key]; ok && w > 0 {
			return w
		}
	}
	return fallback
}
