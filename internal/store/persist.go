package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
)

// Part names one of the three independently persisted blobs.
type Part string

const (
	PartMetrics Part = "metrics"
	PartWeights Part = "weights"
	PartContext Part = "context"
)

// AllParts lists every persisted part.
func AllParts() []Part {
	return []Part{PartMetrics, PartWeights, PartContext}
}

// Persisted holds the raw JSON blobs as read from storage. A nil field means
// the blob was absent.
type Persisted struct {
	Metrics []byte
	Weights []byte
	Context []byte
}

// Empty reports whether no persisted snapshot exists. The metrics blob is
// what makes a persisted snapshot present.
func (p Persisted) Empty() bool {
	return len(p.Metrics) == 0
}

// ParsePersisted builds a partial snapshot from the stored blobs. The metrics
// blob must decode as an item array or the whole snapshot is rejected with
// ErrDecodeFailure. Weight and context blobs that fail to decode are left nil
// so they fall back to defaults on merge.
func ParsePersisted(p Persisted) (*Snapshot, error) {
	if p.Empty() {
		return nil, fmt.Errorf("%w: no persisted metrics", ErrDecodeFailure)
	}
	var raw []wireItem
	if err := unmarshalStrict(p.Metrics, &raw); err != nil {
		return nil, fmt.Errorf("%w: metrics blob: %v", ErrDecodeFailure, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: metrics blob is null", ErrDecodeFailure)
	}
	items, err := convertItems(raw)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Version: CurrentVersion, Items: items}

	if len(p.Weights) > 0 {
		var w wireWeights
		if err := unmarshalStrict(p.Weights, &w); err == nil {
			if wp, err := w.pair(); err == nil {
				snap.Weights = &wp
			}
		}
	}
	if len(p.Context) > 0 {
		var c AssessmentContext
		if err := unmarshalStrict(p.Context, &c); err == nil {
			snap.Context = &c
		}
	}
	return snap, nil
}

// BlobStore is a keyed byte store. Get returns nil, nil for a missing key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Persister reads and writes the three assessment blobs under a key prefix.
type Persister struct {
	blobs  BlobStore
	prefix string
}

// NewPersister stores blobs under "<prefix>.metrics", "<prefix>.weights" and
// "<prefix>.context".
func NewPersister(blobs BlobStore, prefix string) *Persister {
	return &Persister{blobs: blobs, prefix: prefix}
}

// Key returns the storage key for part.
func (p *Persister) Key(part Part) string {
	return p.prefix + "." + string(part)
}

// Load reads all three blobs. Errors wrap ErrPersistenceUnavailable; blobs
// read before the failure are still returned.
func (p *Persister) Load(ctx context.Context) (Persisted, error) {
	var out Persisted
	for _, part := range AllParts() {
		data, err := p.blobs.Get(ctx, p.Key(part))
		if err != nil {
			return out, fmt.Errorf("%w: read %s: %v", ErrPersistenceUnavailable, part, err)
		}
		switch part {
		case PartMetrics:
			out.Metrics = data
		case PartWeights:
			out.Weights = data
		case PartContext:
			out.Context = data
		}
	}
	return out, nil
}

// Save writes the given parts of snap, or all parts when none are named.
func (p *Persister) Save(ctx context.Context, snap Snapshot, parts ...Part) error {
	if len(parts) == 0 {
		parts = AllParts()
	}
	for _, part := range parts {
		data, err := encodePart(snap, part)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %v", ErrPersistenceUnavailable, part, err)
		}
		if err := p.blobs.Put(ctx, p.Key(part), data); err != nil {
			return fmt.Errorf("%w: write %s: %v", ErrPersistenceUnavailable, part, err)
		}
	}
	return nil
}

func encodePart(snap Snapshot, part Part) ([]byte, error) {
	switch part {
	case PartMetrics:
		items := snap.Items
		if items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(items)
	case PartWeights:
		w := scoring.DefaultWeights()
		if snap.Weights != nil {
			w = *snap.Weights
		}
		return json.Marshal(w)
	case PartContext:
		c := AssessmentContext{}
		if snap.Context != nil {
			c = *snap.Context
		}
		return json.Marshal(c)
	default:
		return nil, fmt.Errorf("unknown part %q", part)
	}
}
