// Package slurm composes and submits batch jobs and derives compute
// resources from the scheduler environment. It shells out to sbatch and
// squeue through the system executor; nothing here talks to the scheduler
// daemons directly.
package slurm
