// Package snakemake composes invocations of the external workflow engine.
//
// The engine owns the DAG scheduling, the rule execution, and the lock
// protocol on the working directory; this package only builds argument
// lists, streams the engine's output, propagates its exit code, and knows
// where its lock directory lives.
package snakemake
