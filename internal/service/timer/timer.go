// Package timer owns the process-wide clock value.
//
// The value lives in the keyed store under CurrentTimeKey and is changed only
// through the timer_feature feature entry. Lifecycle operations read it as the
// preferred source of "now".
package timer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/oshokin/pulse-sentry/internal/logger"
	"github.com/oshokin/pulse-sentry/internal/repository/kv"
	"github.com/oshokin/pulse-sentry/internal/schema"
)

const (
	// FeatureName is the feature that accepts timer entries.
	FeatureName = "timer_feature"
	// CurrentTimeKey is both the feature entry key and the store key of the timer.
	CurrentTimeKey = "currentTime"
	// EntrySchemaName validates generic feature entries.
	EntrySchemaName = "feature_entry"
)

// Store is the part of the keyed store the clock needs.
type Store interface {
	kv.Reader
	kv.Writer
}

// Clock guards reads and writes of the timer value.
type Clock struct {
	mu    sync.RWMutex
	store Store
}

// NewClock creates a clock backed by store.
func NewClock(store Store) *Clock {
	return &Clock{store: store}
}

// Raw returns the stored timer value, or nil when it was never set.
func (c *Clock) Raw(ctx context.Context) (json.RawMessage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, err := c.store.Get(ctx, CurrentTimeKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read timer: %w", err)
	}

	return value, nil
}

// Time returns the timer as a timestamp when it holds an integral number
// within int64. Other values report false so callers fall back to ts.
func (c *Clock) Time(ctx context.Context) (int64, bool, error) {
	raw, err := c.Raw(ctx)
	if err != nil || raw == nil {
		return 0, false, err
	}

	ts, ok := ParseNumeric(raw)

	return ts, ok, nil
}

// set stores a new timer value. Only Feature calls it.
func (c *Clock) set(ctx context.Context, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode timer: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err = c.store.Put(ctx, CurrentTimeKey, encoded); err != nil {
		return fmt.Errorf("write timer: %w", err)
	}

	return nil
}

// twoPow63 is the smallest float64 above math.MaxInt64.
const twoPow63 = float64(1 << 63)

// ParseNumeric decodes raw JSON as an integer timestamp.
// Fractional, non-finite and out-of-range numbers are rejected.
func ParseNumeric(raw json.RawMessage) (int64, bool) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return 0, false
	}

	number, ok := value.(json.Number)
	if !ok {
		return 0, false
	}

	if i, err := number.Int64(); err == nil {
		return i, true
	}

	f, err := number.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}

	if f >= twoPow63 || f < -twoPow63 {
		return 0, false
	}

	return int64(f), true
}

// EntrySchema returns the generic key/value schema of feature entries.
func EntrySchema() *schema.Schema {
	return &schema.Schema{
		Name: EntrySchemaName,
		Fields: map[string]schema.Rule{
			"key":   schema.String(1, 256),
			"value": schema.Any(),
		},
	}
}

// Feature applies timer_feature entries.
type Feature struct {
	clock  *Clock
	schema *schema.Schema
}

// NewFeature creates the timer feature bound to clock.
func NewFeature(clock *Clock) *Feature {
	return &Feature{
		clock:  clock,
		schema: EntrySchema(),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return FeatureName
}

// Apply validates entry and updates the timer when its key is CurrentTimeKey.
// Entries with other keys are valid but ignored.
func (f *Feature) Apply(ctx context.Context, entry map[string]any) error {
	if err := f.schema.Validate(entry); err != nil {
		return err
	}

	key, _ := entry["key"].(string)
	if key != CurrentTimeKey {
		logger.DebugKV(ctx, "timer feature entry ignored", "key", key)

		return nil
	}

	if err := f.clock.set(ctx, entry["value"]); err != nil {
		return err
	}

	logger.InfoKV(ctx, "timer updated", "value", entry["value"])

	return nil
}
