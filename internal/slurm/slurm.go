package slurm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"arcrun/internal/config"
	"arcrun/internal/logging"
	"arcrun/internal/system"
)

// Resources holds the compute resources available to the current job step.
type Resources struct {
	CPUs  int
	MemMB int
}

// ResourcesFromEnv derives resources from the scheduler-provided variables,
// falling back to the tool config when running outside an allocation.
// getenv is injectable for tests.
func ResourcesFromEnv(getenv func(string) string, fallback Resources) Resources {
	res := fallback

	if v := getenv(config.EnvSlurmCPUs); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			res.CPUs = n
		} else {
			logging.Warn("unparseable scheduler variable", "var", config.EnvSlurmCPUs, "value", v)
		}
	}

	if v := getenv(config.EnvSlurmMem); v != "" {
		if n, err := parseMemMB(v); err == nil && n > 0 {
			res.MemMB = n
		} else {
			logging.Warn("unparseable scheduler variable", "var", config.EnvSlurmMem, "value", v)
		}
	}

	return res
}

// parseMemMB parses Slurm memory strings, which may carry a unit suffix
// ("64000", "64000M", "64G").
func parseMemMB(s string) (int, error) {
	s = strings.TrimSpace(s)
	mult := 1
	switch {
	case strings.HasSuffix(s, "G"):
		mult = 1024
		s = strings.TrimSuffix(s, "G")
	case strings.HasSuffix(s, "M"):
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		// round down to whole MB
		n, err := strconv.Atoi(strings.TrimSuffix(s, "K"))
		if err != nil {
			return 0, err
		}
		return n / 1024, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return n * mult, nil
}

// BatchSpec describes a batch script to render and submit.
type BatchSpec struct {
	JobName   string
	Account   string
	Partition string
	Walltime  string
	Nodes     int
	CPUs      int
	MemMB     int
	MailTo    string
	LogDir    string
	Workdir   string
	EnvName   string   // conda environment to activate
	Command   []string // already-composed argv for the payload
}

// RenderScript renders the sbatch submission script. The payload command is
// exec'd so the scheduler's signals reach the workflow engine directly.
func RenderScript(spec BatchSpec) string {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "#SBATCH --job-name=%s\n", spec.JobName)
	if spec.Account != "" {
		fmt.Fprintf(&b, "#SBATCH --account=%s\n", spec.Account)
	}
	if spec.Partition != "" {
		fmt.Fprintf(&b, "#SBATCH --partition=%s\n", spec.Partition)
	}
	if spec.Walltime != "" {
		fmt.Fprintf(&b, "#SBATCH --time=%s\n", spec.Walltime)
	}
	if spec.Nodes > 0 {
		fmt.Fprintf(&b, "#SBATCH --nodes=%d\n", spec.Nodes)
	}
	if spec.CPUs > 0 {
		fmt.Fprintf(&b, "#SBATCH --cpus-per-task=%d\n", spec.CPUs)
	}
	if spec.MemMB > 0 {
		fmt.Fprintf(&b, "#SBATCH --mem=%d\n", spec.MemMB)
	}
	if spec.LogDir != "" {
		fmt.Fprintf(&b, "#SBATCH --output=%s/%%x-%%j.out\n", spec.LogDir)
		fmt.Fprintf(&b, "#SBATCH --error=%s/%%x-%%j.err\n", spec.LogDir)
	}
	if spec.MailTo != "" {
		fmt.Fprintf(&b, "#SBATCH --mail-type=END,FAIL\n")
		fmt.Fprintf(&b, "#SBATCH --mail-user=%s\n", spec.MailTo)
	}

	b.WriteString("\nset -euo pipefail\n\n")

	if spec.EnvName != "" {
		b.WriteString("module load Anaconda3 2>/dev/null || true\n")
		fmt.Fprintf(&b, "source activate %s\n\n", spec.EnvName)
	}
	if spec.Workdir != "" {
		fmt.Fprintf(&b, "cd %s\n", spec.Workdir)
	}

	b.WriteString("exec")
	for _, arg := range spec.Command {
		b.WriteString(" " + shellWord(arg))
	}
	b.WriteString("\n")

	return b.String()
}

// shellWord quotes an argument for the rendered script when needed.
func shellWord(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\"'$`\\*?[]{}!&|;<>()~#") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

var jobIDRegex = regexp.MustCompile(`Submitted batch job (\d+)`)

// Submit hands a rendered script to sbatch and returns the job ID.
func Submit(ctx context.Context, exec system.CommandExecutor, scriptPath string) (string, error) {
	out, err := exec.Execute(ctx, "sbatch", scriptPath)
	if err != nil {
		return "", fmt.Errorf("sbatch failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	m := jobIDRegex.FindStringSubmatch(string(out))
	if m == nil {
		return "", fmt.Errorf("could not parse job ID from sbatch output: %q", strings.TrimSpace(string(out)))
	}
	return m[1], nil
}

// JobInfo is one row of queue state.
type JobInfo struct {
	ID       string
	Name     string
	State    string
	Elapsed  string
	TimeLeft string
}

// Queue returns the queue state for the given job IDs via squeue. Jobs that
// have already left the queue are simply absent from the result.
func Queue(ctx context.Context, exec system.CommandExecutor, jobIDs []string) ([]JobInfo, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}

	args := []string{"--noheader", "--format=%i|%j|%T|%M|%L", "--jobs=" + strings.Join(jobIDs, ",")}
	out, err := exec.Execute(ctx, "squeue", args...)
	if err != nil {
		return nil, fmt.Errorf("squeue failed: %w", err)
	}

	var jobs []JobInfo
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 5 {
			continue
		}
		jobs = append(jobs, JobInfo{
			ID:       fields[0],
			Name:     fields[1],
			State:    fields[2],
			Elapsed:  fields[3],
			TimeLeft: fields[4],
		})
	}
	return jobs, nil
}
