package slurm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"arcrun/internal/system"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestResourcesFromEnv(t *testing.T) {
	fallback := Resources{CPUs: 8, MemMB: 64000}

	tests := []struct {
		name string
		env  map[string]string
		want Resources
	}{
		{
			name: "no scheduler vars",
			env:  map[string]string{},
			want: fallback,
		},
		{
			name: "plain values",
			env:  map[string]string{"SLURM_CPUS_PER_TASK": "16", "SLURM_MEM_PER_NODE": "128000"},
			want: Resources{CPUs: 16, MemMB: 128000},
		},
		{
			name: "gigabyte suffix",
			env:  map[string]string{"SLURM_MEM_PER_NODE": "64G"},
			want: Resources{CPUs: 8, MemMB: 65536},
		},
		{
			name: "megabyte suffix",
			env:  map[string]string{"SLURM_MEM_PER_NODE": "48000M"},
			want: Resources{CPUs: 8, MemMB: 48000},
		},
		{
			name: "garbage falls back",
			env:  map[string]string{"SLURM_CPUS_PER_TASK": "many", "SLURM_MEM_PER_NODE": "lots"},
			want: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResourcesFromEnv(fakeEnv(tt.env), fallback)
			if got != tt.want {
				t.Errorf("ResourcesFromEnv() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRenderScript(t *testing.T) {
	spec := BatchSpec{
		JobName:   "arcrun-green-ammonia",
		Account:   "engs-energy",
		Partition: "medium",
		Walltime:  "48:00:00",
		Nodes:     1,
		CPUs:      16,
		MemMB:     128000,
		LogDir:    "/work/.arcrun/logs",
		Workdir:   "/work/pypsa-earth",
		EnvName:   "pypsa-earth",
		Command:   []string{"snakemake", "--cores", "16", "results/networks/elec_s_10_ec_lcopt_24H.nc"},
	}

	script := RenderScript(spec)

	for _, want := range []string{
		"#!/bin/bash\n",
		"#SBATCH --job-name=arcrun-green-ammonia\n",
		"#SBATCH --account=engs-energy\n",
		"#SBATCH --partition=medium\n",
		"#SBATCH --time=48:00:00\n",
		"#SBATCH --cpus-per-task=16\n",
		"#SBATCH --mem=128000\n",
		"#SBATCH --output=/work/.arcrun/logs/%x-%j.out\n",
		"set -euo pipefail\n",
		"source activate pypsa-earth\n",
		"cd /work/pypsa-earth\n",
		"exec snakemake --cores 16 results/networks/elec_s_10_ec_lcopt_24H.nc\n",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}

	if strings.Contains(script, "--mail-user") {
		t.Error("mail directives rendered without MailTo")
	}
}

func TestRenderScript_QuotesArguments(t *testing.T) {
	spec := BatchSpec{
		JobName: "j",
		Command: []string{"snakemake", "--resources", "mem_mb=60000 disk=10"},
	}
	script := RenderScript(spec)
	if !strings.Contains(script, "'mem_mb=60000 disk=10'") {
		t.Errorf("argument with spaces not quoted:\n%s", script)
	}
}

func TestSubmit(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("sbatch", []byte("Submitted batch job 7654321\n"), nil)

	id, err := Submit(context.Background(), exec, "/work/.arcrun/green-ammonia.sbatch")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id != "7654321" {
		t.Errorf("job ID = %q, want 7654321", id)
	}

	last, _ := exec.LastCommand()
	if last.Name != "sbatch" || last.Args[0] != "/work/.arcrun/green-ammonia.sbatch" {
		t.Errorf("unexpected command %+v", last)
	}
}

func TestSubmit_Errors(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("sbatch", []byte("sbatch: error: invalid partition\n"), fmt.Errorf("exit status 1"))

	if _, err := Submit(context.Background(), exec, "/tmp/job.sh"); err == nil {
		t.Fatal("expected error")
	}

	exec = system.NewMockExecutor()
	exec.AddResponse("sbatch", []byte("unexpected output"), nil)
	if _, err := Submit(context.Background(), exec, "/tmp/job.sh"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestQueue(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("squeue", []byte("7654321|arcrun-baseline|RUNNING|1:23:45|46:36:15\n"), nil)

	jobs, err := Queue(context.Background(), exec, []string{"7654321"})
	if err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("jobs = %+v", jobs)
	}
	if jobs[0].State != "RUNNING" || jobs[0].Name != "arcrun-baseline" {
		t.Errorf("unexpected job %+v", jobs[0])
	}
}

func TestQueue_NoJobs(t *testing.T) {
	exec := system.NewMockExecutor()
	jobs, err := Queue(context.Background(), exec, nil)
	if err != nil || jobs != nil {
		t.Errorf("Queue(nil) = %v, %v", jobs, err)
	}
	if len(exec.Commands) != 0 {
		t.Error("squeue should not be invoked without job IDs")
	}
}
