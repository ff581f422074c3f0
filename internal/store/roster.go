package store

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/pkg/storage"
)

// Roster keeps the housekeeper name list used for assignee autocompletion.
// It behaves as an insertion-ordered set and is not subject to the schedule
// invariants.
type Roster struct {
	mu     sync.RWMutex
	names  []string
	kv     *storage.KV
	key    string
	logger *zap.Logger
}

// NewRoster wires a roster over the given storage key. Call Load before use.
func NewRoster(kv *storage.KV, key string, logger *zap.Logger) *Roster {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = "housekeeperNames"
	}
	return &Roster{kv: kv, key: key, logger: logger}
}

// Load reads the stored name list; a corrupted value resets to empty.
func (r *Roster) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, found, err := r.kv.Get(r.key)
	if err != nil {
		return err
	}
	if !found || raw == "" {
		r.names = nil
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		r.logger.Warn("stored roster is corrupted, resetting", zap.Error(err))
		r.names = nil
		return nil
	}
	r.names = names
	return nil
}

// Names returns a copy of the roster in insertion order.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Add appends a name; adding an existing name is a no-op.
func (r *Roster) Add(name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.names {
		if existing == name {
			return
		}
	}
	r.names = append(r.names, name)
	r.persistLocked()
}

// Remove drops the named entry if present.
func (r *Roster) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.names[:0]
	removed := false
	for _, existing := range r.names {
		if existing == name {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	r.names = kept
	if removed {
		r.persistLocked()
	}
}

func (r *Roster) persistLocked() {
	data, err := json.Marshal(r.names)
	if err != nil {
		r.logger.Error("failed to serialize roster", zap.Error(err))
		return
	}
	if err := r.kv.Set(r.key, string(data)); err != nil {
		r.logger.Error("failed to persist roster", zap.Error(err))
	}
}
