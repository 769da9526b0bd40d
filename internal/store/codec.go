package store

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
)

// Encode renders s as base64 of its compact JSON form. The version field is
// always written as CurrentVersion and a nil Items is written as [], so equal
// inputs always give equal tokens.
func Encode(s Snapshot) string {
	out := Snapshot{
		Version: CurrentVersion,
		Items:   s.Items,
		Weights: s.Weights,
		Context: s.Context,
	}
	if out.Items == nil {
		out.Items = []catalog.MetricValue{}
	}
	// Snapshot holds only strings, ints and finite floats from JSON, so
	// Marshal cannot fail except on NaN/Inf weights.
	data, err := json.Marshal(out)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// Decode is the inverse of Encode. Any malformed input, including an unknown
// version, yields a nil snapshot and an error wrapping ErrDecodeFailure.
func Decode(token string) (*Snapshot, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrDecodeFailure)
	}
	data, err := decodeBase64(token)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrDecodeFailure, err)
	}

	var w wireSnapshot
	if err := unmarshalStrict(data, &w); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrDecodeFailure, err)
	}
	return w.snapshot()
}

// wire types mirror the transport shape with pointer fields so that missing
// required fields can be told apart from zero values.
type wireSnapshot struct {
	V       *int               `json:"v"`
	Items   *[]wireItem        `json:"items"`
	Weights *wireWeights       `json:"weights"`
	Context *AssessmentContext `json:"context"`
}

type wireItem struct {
	ID    *string `json:"id"`
	Value *int    `json:"value"`
}

type wireWeights struct {
	CapacityWeight     *float64 `json:"capacityWeight"`
	AdaptabilityWeight *float64 `json:"adaptabilityWeight"`
}

func (w wireSnapshot) snapshot() (*Snapshot, error) {
	if w.V == nil {
		return nil, fmt.Errorf("%w: missing version", ErrDecodeFailure)
	}
	if *w.V != CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrDecodeFailure, *w.V)
	}
	if w.Items == nil {
		return nil, fmt.Errorf("%w: missing items", ErrDecodeFailure)
	}
	items, err := convertItems(*w.Items)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{Version: CurrentVersion, Items: items, Context: w.Context}
	if w.Weights != nil {
		wp, err := w.Weights.pair()
		if err != nil {
			return nil, err
		}
		s.Weights = &wp
	}
	return s, nil
}

func (w wireWeights) pair() (scoring.WeightPair, error) {
	if w.CapacityWeight == nil || w.AdaptabilityWeight == nil {
		return scoring.WeightPair{}, fmt.Errorf("%w: weights need capacityWeight and adaptabilityWeight", ErrDecodeFailure)
	}
	return scoring.WeightPair{
		CapacityWeight:     *w.CapacityWeight,
		AdaptabilityWeight: *w.AdaptabilityWeight,
	}, nil
}

func convertItems(in []wireItem) ([]catalog.MetricValue, error) {
	items := make([]catalog.MetricValue, 0, len(in))
	for i, it := range in {
		if it.ID == nil || it.Value == nil {
			return nil, fmt.Errorf("%w: item %d needs id and value", ErrDecodeFailure, i)
		}
		items = append(items, catalog.MetricValue{ID: *it.ID, Value: *it.Value})
	}
	return items, nil
}

// unmarshalStrict decodes exactly one JSON value from data. Unknown fields
// are tolerated so newer writers stay readable.
func unmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON value")
	}
	return nil
}

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(token string) ([]byte, error) {
	var firstErr error
	for _, enc := range base64Encodings {
		data, err := enc.DecodeString(token)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
