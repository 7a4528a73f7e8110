// Package wizardstate is the hand-off store for multi-step wizard flows.
//
// Each wizard run (one staff member walking one flow in one browser session)
// gets an opaque run ID, and every wizard step reads and writes string-keyed
// JSON values scoped to that run. The store is deliberately non-durable:
// values expire with the run and are cleared outright when the wizard
// completes or is cancelled. It is hand-off state, not a persistence layer.
//
// Values are wrapped in a versioned envelope before storage. Readers go
// through Fetch, which fails closed: a missing key, a corrupt document, or a
// schema-version mismatch all look identical to the caller ("not there"), so
// a consuming page redirects to the start of the wizard instead of rendering
// undefined state.
package wizardstate

import (
	"context"
	"encoding/json"
)

// SchemaVersion is the current envelope version. Bump it when the shape of
// any stored wizard value changes incompatibly; old values then read as
// absent and the user restarts the wizard.
const SchemaVersion = 1

// Store is the backend contract. Implementations must be safe for concurrent
// use and must treat Remove of an absent key and Clear of an absent run as
// no-ops.
type Store interface {
	// Set serializes nothing itself; it stores raw bytes under (runID, key),
	// overwriting any existing value.
	Set(ctx context.Context, runID, key string, value []byte) error

	// Get returns the raw stored bytes and whether the key was present.
	// A missing key is not an error.
	Get(ctx context.Context, runID, key string) ([]byte, bool, error)

	// Remove deletes one key. Idempotent.
	Remove(ctx context.Context, runID, key string) error

	// Clear deletes every key belonging to the run. Idempotent.
	Clear(ctx context.Context, runID string) error
}

// envelope wraps every stored value with its schema version.
type envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

// Put marshals v into a versioned envelope and stores it under (runID, key).
func Put(ctx context.Context, s Store, runID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{V: SchemaVersion, Data: data})
	if err != nil {
		return err
	}
	return s.Set(ctx, runID, key, raw)
}

// Fetch loads (runID, key) into dst and reports whether a usable value was
// found. Absent keys, undecodable payloads, and version mismatches all
// return (false, nil); only backend failures surface as errors.
func Fetch(ctx context.Context, s Store, runID, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, runID, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, nil
	}
	if env.V != SchemaVersion {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return false, nil
	}
	return true, nil
}
