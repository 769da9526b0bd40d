package store

import (
	"fmt"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
)

// Origin names the source the assessment state was initialized from.
type Origin string

const (
	OriginDefaults  Origin = "defaults"
	OriginPersisted Origin = "persisted"
	OriginImported  Origin = "imported"
)

// Resolution reports how Initialize chose its starting state. PersistedErr
// and ImportErr explain why a supplied source was skipped; they are
// informational and never abort initialization.
type Resolution struct {
	Origin       Origin
	PersistedErr error
	ImportErr    error
}

// Store owns the canonical metric values, weights and context for one
// assessment. It is not safe for concurrent use; callers serialise access.
type Store struct {
	catalog catalog.Catalog

	values  []catalog.MetricValue
	weights scoring.WeightPair
	context AssessmentContext

	initialized bool
	resolution  Resolution
}

// New creates a Store over cat holding the catalog defaults.
func New(cat catalog.Catalog) *Store {
	s := &Store{catalog: cat}
	s.Reset()
	return s
}

// Catalog returns the catalog the store scores against.
func (s *Store) Catalog() catalog.Catalog { return s.catalog }

// Initialize picks the starting state: the persisted snapshot if present and
// parseable, else the imported share token if present and parseable, else the
// built-in defaults. Only the first call has any effect; later calls return
// the first resolution unchanged.
func (s *Store) Initialize(persisted Persisted, importToken string) Resolution {
	if s.initialized {
		return s.resolution
	}
	s.initialized = true

	var res Resolution
	if !persisted.Empty() {
		snap, err := ParsePersisted(persisted)
		if err == nil {
			s.apply(Merge(s.catalog, *snap))
			res.Origin = OriginPersisted
			s.resolution = res
			return res
		}
		res.PersistedErr = err
	}

	if importToken != "" {
		snap, err := Decode(importToken)
		if err == nil {
			s.apply(Merge(s.catalog, *snap))
			res.Origin = OriginImported
			s.resolution = res
			return res
		}
		res.ImportErr = err
	}

	s.Reset()
	res.Origin = OriginDefaults
	s.resolution = res
	return res
}

// Initialized reports whether Initialize has run.
func (s *Store) Initialized() bool { return s.initialized }

// Resolution returns the result of the first Initialize call.
func (s *Store) Resolution() Resolution { return s.resolution }

func (s *Store) apply(full Snapshot) {
	s.values = full.Items
	s.weights = scoring.DefaultWeights()
	if full.Weights != nil {
		s.weights = *full.Weights
	}
	s.context = AssessmentContext{}
	if full.Context != nil {
		s.context = *full.Context
	}
}

// SetMetricValue clamps value to [0,100] and stores it for id, keeping the
// catalog order. It returns ErrInvalidID if id is not in the catalog.
func (s *Store) SetMetricValue(id string, value int) error {
	for i := range s.values {
		if s.values[i].ID == id {
			s.values[i].Value = clampValue(value)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidID, id)
}

// SetWeight replaces one weight. Values are stored as given; clamping happens
// only when the weights are normalized for scoring.
func (s *Store) SetWeight(which catalog.Group, value float64) error {
	switch which {
	case catalog.GroupCapacity:
		s.weights.CapacityWeight = value
	case catalog.GroupAdaptability:
		s.weights.AdaptabilityWeight = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGroup, which)
	}
	return nil
}

// SetContext replaces the assessment context.
func (s *Store) SetContext(c AssessmentContext) {
	s.context = c
}

// Reset restores catalog defaults, 0.5/0.5 weights and an empty context.
func (s *Store) Reset() {
	s.values = s.catalog.Defaults()
	s.weights = scoring.DefaultWeights()
	s.context = AssessmentContext{}
}

// Values returns a copy of the current metric values in catalog order.
func (s *Store) Values() []catalog.MetricValue {
	out := make([]catalog.MetricValue, len(s.values))
	copy(out, s.values)
	return out
}

// Weights returns the stored, unnormalized weights.
func (s *Store) Weights() scoring.WeightPair { return s.weights }

// Context returns the current assessment context.
func (s *Store) Context() AssessmentContext { return s.context }

// Snapshot returns the full current state. Context is nil when empty.
func (s *Store) Snapshot() Snapshot {
	w := s.weights
	snap := Snapshot{
		Version: CurrentVersion,
		Items:   s.Values(),
		Weights: &w,
	}
	if !s.context.IsZero() {
		c := s.context
		snap.Context = &c
	}
	return snap
}

// Result recomputes the derived scores from the current state.
func (s *Store) Result() scoring.Result {
	return scoring.Evaluate(s.catalog, s.values, s.weights)
}
