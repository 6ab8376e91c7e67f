package tracker

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// stateStore persists the last time a weekly report actually ran. The
// report daemon compares wall-clock time against the trigger minute, so
// without this a restart during the trigger window would double-fire.
type stateStore struct {
	path string
	mu   sync.Mutex
}

type trackerState struct {
	LastReport time.Time `json:"last_report"`
}

func newStateStore(path string) *stateStore {
	return &stateStore{path: path}
}

func (s *stateStore) lastReport() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}

	var state trackerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return time.Time{}, err
	}
	return state.LastReport, nil
}

func (s *stateStore) markReported(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(trackerState{LastReport: t}, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0644)
}
