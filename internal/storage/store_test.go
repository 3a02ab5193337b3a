package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/vmath"
)

func sampleTrace() *Trace {
	return &Trace{
		Times: []float64{0.0, 0.5},
		States: [][]float64{
			{0, 10, 0, 1, 5, -1},
			{0, 9.5, 0, 1.5, 4.5, -1},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Preset:  "drop",
		Seed:    42,
		FPS:     60,
		Spheres: 2,
		Metrics: map[string]float64{"kinetic_energy": 1.5},
	}

	runID, err := st.Save(meta, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID || loaded.Preset != "drop" {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.Metrics["kinetic_energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", loaded.Metrics["kinetic_energy"])
	}

	trace, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if trace.Len() != 2 || trace.Spheres() != 2 {
		t.Errorf("expected 2 samples of 2 spheres, got %d of %d", trace.Len(), trace.Spheres())
	}
	if trace.States[1][4] != 4.5 {
		t.Errorf("y1 at t=0.5 = %v", trace.States[1][4])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list before init failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	first, err := st.Save(RunMetadata{Preset: "drop"}, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunMetadata{Preset: "drop"}, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Errorf("two runs share id %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Preset: "rain"}, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatalf("states.csv not created: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("time,x0,y0,z0,x1,y1,z1\n")) {
		t.Errorf("unexpected csv header: %q", data)
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadStates("nope"); err == nil {
		t.Error("expected error for missing states")
	}
}

func TestTraceColumn(t *testing.T) {
	trace := sampleTrace()

	ys, err := trace.Column(1, 1)
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	if len(ys) != 2 || ys[0] != 5 || ys[1] != 4.5 {
		t.Errorf("column = %v", ys)
	}

	tests := []struct {
		name         string
		sphere, axis int
	}{
		{"bad axis", 0, 3},
		{"bad sphere", 2, 0},
		{"negative sphere", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := trace.Column(tt.sphere, tt.axis); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := (&Trace{}).Column(0, 0); err != ErrEmptyTrace {
		t.Errorf("expected ErrEmptyTrace, got %v", err)
	}

	path, err := trace.Path(1, true)
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path[1].X != 1.5 || path[1].Y != -1 {
		t.Errorf("top path = %v", path)
	}
}

func TestRecorder(t *testing.T) {
	sc := physics.NewScene()
	s, err := physics.NewSphere(vmath.New(1, 2, 3), 0.2, 1)
	if err != nil {
		t.Fatal(err)
	}
	sc.AddSphere(nil)
	sc.AddSphere(s)

	r := NewRecorder(3)
	r.Record(sc, 0)
	for i := 1; i <= 9; i++ {
		r.OnTick(sc, float64(i)*0.1)
	}

	trace := r.Trace()
	if trace.Len() != 4 {
		t.Fatalf("expected 4 samples, got %d", trace.Len())
	}
	if math.Abs(trace.Times[3]-0.9) > 1e-12 {
		t.Errorf("last sample time = %v", trace.Times[3])
	}
	if trace.Spheres() != 1 || trace.States[0][2] != 3 {
		t.Errorf("nil slot not skipped: %v", trace.States[0])
	}

	r.Reset()
	if r.Trace().Len() != 0 {
		t.Error("reset kept samples")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	meta := RunMetadata{ID: "drop_1", Preset: "drop", FPS: 60}

	if err := ExportJSON(path, meta, sampleTrace()); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded ExportData
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != "drop_1" || decoded.FPS != 60 || decoded.Steps != 2 || len(decoded.States) != 2 {
		t.Errorf("unexpected export %+v", decoded)
	}

	var buf bytes.Buffer
	if err := ExportJSONTo(&buf, meta, nil); err != nil {
		t.Fatalf("export to writer: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"preset": "drop"`)) {
		t.Errorf("missing preset in %s", buf.String())
	}
}
