package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var ErrEmptyTrace = errors.New("storage: trace has no samples")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FPS       int                `json:"fps"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Ticks     uint64             `json:"ticks"`
	Spheres   int                `json:"spheres"`
	Gravity   float64            `json:"gravity"`
	Dampening float64            `json:"dampening"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv under a new run directory and
// returns the run id. ID and Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, trace *Trace) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	name := meta.Preset
	if name == "" {
		name = "run"
	}

	runID := meta.ID
	if runID == "" {
		runID = fmt.Sprintf("%s_%d", name, meta.Timestamp.Unix())
		for n := 2; ; n++ {
			if _, err := os.Stat(s.Dir(runID)); os.IsNotExist(err) {
				break
			}
			runID = fmt.Sprintf("%s_%d_%d", name, meta.Timestamp.Unix(), n)
		}
	}
	meta.ID = runID
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if trace == nil || len(trace.States) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for i := 0; i < trace.Spheres(); i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range trace.States {
		row := []string{strconv.FormatFloat(trace.Times[i], 'f', 6, 64)}
		for _, val := range trace.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

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

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.Dir(runID), "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) (*Trace, error) {
	csvPath := filepath.Join(s.Dir(runID), "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := &Trace{}
	if len(records) < 2 {
		return trace, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		state := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		trace.Times = append(trace.Times, t)
		trace.States = append(trace.States, state)
	}

	return trace, nil
}
