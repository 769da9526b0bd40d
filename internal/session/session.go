package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/hermes"
	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
	"github.com/MikeSquared-Agency/Resilience/internal/store"
)

const persistTimeout = 5 * time.Second

// View is the state plus the values derived from it.
type View struct {
	SessionID string         `json:"session_id"`
	Origin    store.Origin   `json:"origin"`
	Snapshot  store.Snapshot `json:"snapshot"`
	Result    scoring.Result `json:"result"`
}

// Session is the single writer in front of a store.Store. It serialises
// access, persists after each mutation and publishes change events.
// Persistence and publishing failures are logged and never fail a mutation.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	store     *store.Store
	persister *store.Persister
	hermes    hermes.Client
	metrics   *Metrics
	logger    *slog.Logger
}

// New creates a session over cat. persister and h may be nil.
func New(cat catalog.Catalog, persister *store.Persister, h hermes.Client, metrics *Metrics, logger *slog.Logger) *Session {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Session{
		id:        uuid.New(),
		store:     store.New(cat),
		persister: persister,
		hermes:    h,
		metrics:   metrics,
		logger:    logger,
	}
}

// ID returns the session id used in events.
func (s *Session) ID() uuid.UUID { return s.id }

// Catalog returns the catalog the session scores against.
func (s *Session) Catalog() catalog.Catalog { return s.store.Catalog() }

// Open loads persisted blobs, if any, and initializes the store from them,
// from importToken, or from defaults. Only the first call has an effect.
func (s *Session) Open(ctx context.Context, importToken string) store.Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.Initialized() {
		return s.store.Resolution()
	}

	var persisted store.Persisted
	if s.persister != nil {
		p, err := s.persister.Load(ctx)
		if err != nil {
			s.metrics.PersistenceFailures.WithLabelValues("load").Inc()
			s.logger.Warn("persisted assessment unavailable, continuing without it", "error", err)
		} else {
			persisted = p
		}
	}

	res := s.store.Initialize(persisted, importToken)
	if res.PersistedErr != nil {
		s.metrics.DecodeFailures.WithLabelValues("persisted").Inc()
		s.logger.Warn("ignoring unreadable persisted assessment", "error", res.PersistedErr)
	}
	if res.ImportErr != nil {
		s.metrics.DecodeFailures.WithLabelValues("import").Inc()
		s.logger.Warn("ignoring malformed share token", "error", res.ImportErr)
	}
	s.logger.Info("assessment initialized", "session_id", s.id, "origin", res.Origin)

	result := s.store.Result()
	s.metrics.Composite.Set(result.Composite)
	s.publish(hermes.SubjectAssessmentInitialized(s.id.String()), "initialize", "", res.Origin, result)
	return res
}

// View returns the current state and derived values.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		SessionID: s.id.String(),
		Origin:    s.store.Resolution().Origin,
		Snapshot:  s.store.Snapshot(),
		Result:    s.store.Result(),
	}
}

// SetMetric stores a clamped value for id. It returns store.ErrInvalidID for
// an unknown id.
func (s *Session) SetMetric(ctx context.Context, id string, value int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetMetricValue(id, value); err != nil {
		return View{}, err
	}
	s.afterMutation(ctx, "set_metric", id, store.PartMetrics)
	return s.viewLocked(), nil
}

// SetWeight replaces one group weight.
func (s *Session) SetWeight(ctx context.Context, group catalog.Group, value float64) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetWeight(group, value); err != nil {
		return View{}, err
	}
	s.afterMutation(ctx, "set_weight", "", store.PartWeights)
	return s.viewLocked(), nil
}

// SetContext replaces the assessment context.
func (s *Session) SetContext(ctx context.Context, c store.AssessmentContext) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.SetContext(c)
	s.afterMutation(ctx, "set_context", "", store.PartContext)
	return s.viewLocked()
}

// Reset restores defaults and overwrites all persisted blobs.
func (s *Session) Reset(ctx context.Context) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Reset()
	s.afterMutation(ctx, "reset", "", store.AllParts()...)
	s.logger.Info("assessment reset", "session_id", s.id)
	return s.viewLocked()
}

// ShareToken encodes the current state for a share link.
func (s *Session) ShareToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.Encode(s.store.Snapshot())
}

// Preview decodes a share token and scores it against the catalog without
// touching the session state.
func (s *Session) Preview(token string) (store.Snapshot, scoring.Result, error) {
	snap, err := store.Decode(token)
	if err != nil {
		s.metrics.DecodeFailures.WithLabelValues("preview").Inc()
		return store.Snapshot{}, scoring.Result{}, err
	}
	cat := s.store.Catalog()
	merged := store.Merge(cat, *snap)
	return merged, scoring.Evaluate(cat, merged.Items, *merged.Weights), nil
}

func (s *Session) afterMutation(ctx context.Context, op, metricID string, parts ...store.Part) {
	s.metrics.Mutations.WithLabelValues(op).Inc()
	result := s.store.Result()
	s.metrics.Composite.Set(result.Composite)

	s.persist(ctx, op, parts...)

	subject := hermes.SubjectAssessmentUpdated(s.id.String())
	if op == "reset" {
		subject = hermes.SubjectAssessmentReset(s.id.String())
	}
	s.publish(subject, op, metricID, "", result)
}

func (s *Session) persist(ctx context.Context, op string, parts ...store.Part) {
	if s.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.persister.Save(ctx, s.store.Snapshot(), parts...); err != nil {
		s.metrics.PersistenceFailures.WithLabelValues(op).Inc()
		s.logger.Warn("failed to persist assessment", "operation", op, "error", err)
	}
}

func (s *Session) publish(subject, op, metricID string, origin store.Origin, result scoring.Result) {
	if s.hermes == nil {
		return
	}
	evt := hermes.AssessmentEvent{
		SessionID:         s.id.String(),
		Operation:         op,
		Origin:            string(origin),
		MetricID:          metricID,
		CER:               result.Composite,
		RecoveryReduction: result.RecoveryReduction,
		StressIndex:       result.StressIndex,
		PivotTier:         string(result.PivotTier),
		Timestamp:         time.Now().UTC(),
	}
	if err := s.hermes.Publish(subject, evt); err != nil {
		s.logger.Warn("failed to publish assessment event", "subject", subject, "error", err)
	}
}
