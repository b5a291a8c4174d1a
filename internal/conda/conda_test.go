package conda

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"arcrun/internal/system"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func newTestBuilder(exec *system.MockExecutor, fs *system.MockFS) *Builder {
	b := NewBuilder(exec, fs, "/work/pypsa-earth", "/work/.arcrun/logs")
	b.Now = fixedClock
	return b
}

func TestProvision_FullSequence(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.MissingBinaries = []string{"mamba"}
	exec.AddResponse("conda list", []byte("# export\nnumpy=1.26.4=py311\n"), nil)
	exec.AddResponse("conda run", []byte("numpy==1.26.4\n"), nil)
	fs := system.NewMockFS()

	b := newTestBuilder(exec, fs)
	spec := Spec{
		Name:     "pypsa-earth",
		Manifest: "envs/environment.yaml",
		PipExtra: []string{"gurobipy==10.0.3", "vresutils==0.3.1"},
	}

	result, err := b.Provision(context.Background(), spec)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if result.Tool != "conda" {
		t.Errorf("tool = %q, want conda", result.Tool)
	}

	lines := exec.CommandLines()
	wantPrefixes := []string{
		"conda env remove -n pypsa-earth -y",
		"conda env create -n pypsa-earth -f /work/pypsa-earth/envs/environment.yaml",
		"conda run -n pypsa-earth pip install gurobipy==10.0.3 vresutils==0.3.1",
		"conda list -n pypsa-earth --export",
		"conda run -n pypsa-earth pip freeze",
	}
	if len(lines) != len(wantPrefixes) {
		t.Fatalf("commands = %v", lines)
	}
	for i, want := range wantPrefixes {
		if lines[i] != want {
			t.Errorf("command[%d] = %q, want %q", i, lines[i], want)
		}
	}

	// Audit snapshots written
	if data, ok := fs.GetFile("/work/.arcrun/logs/packages-pypsa-earth-20260314-092653.txt"); !ok || !strings.Contains(string(data), "numpy") {
		t.Errorf("package snapshot missing or wrong: %q ok=%v", data, ok)
	}
	if _, ok := fs.GetFile("/work/.arcrun/logs/freeze-pypsa-earth-20260314-092653.txt"); !ok {
		t.Error("freeze snapshot missing")
	}
}

func TestProvision_PrefersMamba(t *testing.T) {
	exec := system.NewMockExecutor()
	fs := system.NewMockFS()

	b := newTestBuilder(exec, fs)
	result, err := b.Provision(context.Background(), Spec{Name: "pypsa-earth", Manifest: "envs/environment.yaml"})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if result.Tool != "mamba" {
		t.Errorf("tool = %q, want mamba", result.Tool)
	}
}

// Rerunning against an existing environment removes and recreates it
// without error.
func TestProvision_Idempotent(t *testing.T) {
	exec := system.NewMockExecutor()
	fs := system.NewMockFS()
	b := newTestBuilder(exec, fs)

	spec := Spec{Name: "pypsa-earth", Manifest: "envs/environment.yaml"}
	for i := 0; i < 2; i++ {
		if _, err := b.Provision(context.Background(), spec); err != nil {
			t.Fatalf("Provision run %d: %v", i+1, err)
		}
	}

	removes := 0
	for _, line := range exec.CommandLines() {
		if strings.Contains(line, "env remove") {
			removes++
		}
	}
	if removes != 2 {
		t.Errorf("env remove ran %d times, want 2", removes)
	}
}

func TestProvision_RemovalFailureIgnored(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("mamba env", []byte(""), nil) // both remove and create match "mamba env"
	fs := system.NewMockFS()
	b := newTestBuilder(exec, fs)

	result, err := b.Provision(context.Background(), Spec{Name: "fresh", Manifest: "envs/environment.yaml"})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if !result.Recreated {
		t.Error("expected Recreated when removal succeeded")
	}
}

func TestProvision_CreateFailurePropagates(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.MissingBinaries = []string{"mamba"}
	exec.Responses["conda env"] = system.MockResponse{Output: []byte("solve failed"), Err: fmt.Errorf("exit status 1")}
	fs := system.NewMockFS()
	b := newTestBuilder(exec, fs)

	_, err := b.Provision(context.Background(), Spec{Name: "pypsa-earth", Manifest: "envs/environment.yaml"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "env create") {
		t.Errorf("error = %v", err)
	}
}

func TestProvision_EmptyName(t *testing.T) {
	b := newTestBuilder(system.NewMockExecutor(), system.NewMockFS())
	if _, err := b.Provision(context.Background(), Spec{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}
