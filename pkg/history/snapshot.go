package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/pkg/errors"
)

// SnapshotVersion is written into every saved snapshot.
const SnapshotVersion = "1"

// Snapshot is the persisted record set: every evaluation and action item so far.
type Snapshot struct {
	Evaluations []evaluation.Evaluation `json:"evaluations"`
	ActionItems []evaluation.ActionItem `json:"action_items"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Version     string                  `json:"version"`
}

// Load reads a snapshot file. A missing file is an empty history.
func Load(path string) (snap Snapshot, err error) {
	snap = Snapshot{
		Evaluations: make([]evaluation.Evaluation, 0),
		ActionItems: make([]evaluation.ActionItem, 0),
		Version:     SnapshotVersion,
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
			return snap, err
		}
		err = errors.Wrapf(err, "failed to read history file: %s", path)
		return snap, err
	}

	err = json.Unmarshal(data, &snap)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse history file: %s", path)
		return snap, err
	}

	if snap.Evaluations == nil {
		snap.Evaluations = make([]evaluation.Evaluation, 0)
	}
	if snap.ActionItems == nil {
		snap.ActionItems = make([]evaluation.ActionItem, 0)
	}

	return snap, err
}

// Save writes snap to path through a temp file in the same directory so a
// crash never leaves half a file. Each call uses its own temp file.
func Save(path string, snap Snapshot) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create history directory: %s", dir)
		return err
	}

	snap.Version = SnapshotVersion

	var data []byte
	data, err = json.MarshalIndent(snap, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal history")
		return err
	}

	var tmp *os.File
	tmp, err = os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		err = errors.Wrapf(err, "failed to create temp file in: %s", dir)
		return err
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		err = errors.Wrapf(err, "failed to write history file: %s", tmpPath)
		return err
	}

	err = os.Rename(tmpPath, path)
	if err != nil {
		_ = os.Remove(tmpPath)
		err = errors.Wrapf(err, "failed to replace history file: %s", path)
		return err
	}

	return err
}

// ForConsultant returns the evaluations of one consultant in stored order.
func (s Snapshot) ForConsultant(name string) (evs []evaluation.Evaluation) {
	evs = make([]evaluation.Evaluation, 0)
	for _, ev := range s.Evaluations {
		if ev.ConsultantName == name {
			evs = append(evs, ev)
		}
	}
	return evs
}
