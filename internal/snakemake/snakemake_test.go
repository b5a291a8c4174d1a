package snakemake

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"arcrun/internal/system"
)

func TestInvocation_Args(t *testing.T) {
	inv := Invocation{
		ConfigFiles:     []string{"/cfg/config.arc.yaml", "/cfg/overrides/green-ammonia.yaml"},
		Target:          "results/networks/elec_s_10_ec_lcopt_24H.nc",
		Cores:           16,
		MemMB:           62000,
		RerunIncomplete: true,
	}

	want := []string{
		"--configfile", "/cfg/config.arc.yaml",
		"--configfile", "/cfg/overrides/green-ammonia.yaml",
		"--cores", "16",
		"--resources", "mem_mb=62000",
		"--rerun-incomplete",
		"results/networks/elec_s_10_ec_lcopt_24H.nc",
	}
	if got := inv.Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v\nwant %v", got, want)
	}
}

func TestInvocation_Args_ConfigOrderPreserved(t *testing.T) {
	inv := Invocation{ConfigFiles: []string{"base.yaml", "override.yaml"}}
	args := inv.Args()

	baseIdx, overrideIdx := -1, -1
	for i, a := range args {
		switch a {
		case "base.yaml":
			baseIdx = i
		case "override.yaml":
			overrideIdx = i
		}
	}
	if baseIdx == -1 || overrideIdx == -1 || baseIdx > overrideIdx {
		t.Errorf("config order not preserved: %v", args)
	}
}

func TestInvocation_CommandLine(t *testing.T) {
	inv := Invocation{
		ConfigFiles: []string{"/cfg/my config.yaml"},
		Target:      "all",
	}
	line := inv.CommandLine()
	if !strings.HasPrefix(line, "snakemake ") {
		t.Errorf("CommandLine() = %q", line)
	}
	if !strings.Contains(line, "'/cfg/my config.yaml'") {
		t.Errorf("path with space not quoted: %q", line)
	}
}

func TestReserveMem(t *testing.T) {
	if got := ReserveMem(64000); got != 61952 {
		t.Errorf("ReserveMem(64000) = %d", got)
	}
	// Tiny grants pass through rather than going negative
	if got := ReserveMem(1024); got != 1024 {
		t.Errorf("ReserveMem(1024) = %d", got)
	}
}

func TestRun_PropagatesExitCode(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddExitCode("snakemake", 1)

	code, err := Run(context.Background(), exec, "/work", Invocation{Target: "all"}, []string{"GRB_LICENSE_FILE=/lic/gurobi.lic"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	last, _ := exec.LastCommand()
	if last.Dir != "/work" {
		t.Errorf("workdir = %q", last.Dir)
	}
	if len(last.Env) != 1 || !strings.HasPrefix(last.Env[0], "GRB_LICENSE_FILE=") {
		t.Errorf("env = %v", last.Env)
	}
}

func TestLocked(t *testing.T) {
	fs := system.NewMockFS()
	if Locked(fs, "/work/.snakemake/locks") {
		t.Error("missing lock dir should not read as locked")
	}

	fs.AddDir("/work/.snakemake/locks")
	if Locked(fs, "/work/.snakemake/locks") {
		t.Error("empty lock dir should not read as locked")
	}

	fs.AddFile("/work/.snakemake/locks/0.input.lock", nil, 0644)
	if !Locked(fs, "/work/.snakemake/locks") {
		t.Error("lock entry should read as locked")
	}
}

func TestUnlock_ViaEngine(t *testing.T) {
	exec := system.NewMockExecutor()
	fs := system.NewMockFS()
	fs.AddFile("/work/.snakemake/locks/0.input.lock", nil, 0644)

	how, err := Unlock(context.Background(), exec, fs, "/work", "/work/.snakemake/locks", []string{"/cfg/config.arc.yaml"})
	if err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if !strings.Contains(how, "--unlock") {
		t.Errorf("how = %q", how)
	}

	last, _ := exec.LastCommand()
	found := false
	for _, a := range last.Args {
		if a == "--unlock" {
			found = true
		}
	}
	if !found {
		t.Errorf("snakemake not called with --unlock: %v", last.Args)
	}
}

func TestUnlock_FallsBackToRemoval(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddExitCode("snakemake", 1)
	fs := system.NewMockFS()
	fs.AddFile("/work/.snakemake/locks/0.input.lock", nil, 0644)

	how, err := Unlock(context.Background(), exec, fs, "/work", "/work/.snakemake/locks", nil)
	if err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if how != "lock directory removed" {
		t.Errorf("how = %q", how)
	}
	if fs.Exists("/work/.snakemake/locks/0.input.lock") {
		t.Error("lock entry survived fallback removal")
	}
}
