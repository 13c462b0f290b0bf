package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/diffdrive/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var statesHeader = []string{"time", "x", "y", "theta", "phi_l", "phi_r"}

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the metadata.json of a run.
type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Program    string             `json:"program"`
	Radius     float64            `json:"radius"`
	Separation float64            `json:"separation"`
	Height     float64            `json:"height"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Final      sim.State          `json:"final"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes the metadata and the sampled states of a run into a new run
// directory and returns the run id. ID, Timestamp, Duration, Steps and
// Final are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	meta.Duration = result.Duration()
	meta.Steps = result.Steps
	meta.Final = result.Final()
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", errors.Wrap(err, "write metadata")
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", errors.Wrap(err, "write states")
	}
	return meta.ID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statesHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, x := range result.States {
		row := []string{
			format(result.Times[i]),
			format(x.X), format(x.Y), format(x.Theta),
			"", "",
		}
		// the control columns hold the command applied from this pose on;
		// the last pose has none and leaves them empty
		if i < len(result.Controls) {
			u := result.Controls[i]
			row[4], row[5] = format(u.Left), format(u.Right)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns the metadata of every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s: decode metadata", runID)
	}
	return &meta, nil
}

// LoadStates reads back the sampled poses, controls and times of a run.
// There is one control fewer than poses, as in sim.Result.
func (s *Store) LoadStates(runID string) ([]sim.State, []sim.Control, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "run %s", runID)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(statesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "run %s: read states", runID)
	}
	if len(records) < 2 {
		return []sim.State{}, []sim.Control{}, []float64{}, nil
	}

	n := len(records) - 1
	states := make([]sim.State, 0, n)
	controls := make([]sim.Control, 0, n)
	times := make([]float64, 0, n)

	for i, record := range records[1:] {
		hasControl := record[4] != "" || record[5] != ""
		fields := record
		if !hasControl {
			fields = record[:4]
		}

		var vals [6]float64
		for j, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, nil, errors.Wrapf(err, "run %s: row %d column %s", runID, i+1, statesHeader[j])
			}
			vals[j] = v
		}
		times = append(times, vals[0])
		states = append(states, sim.State{X: vals[1], Y: vals[2], Theta: vals[3]})
		if hasControl {
			controls = append(controls, sim.Control{Left: vals[4], Right: vals[5]})
		}
	}

	return states, controls, times, nil
}
