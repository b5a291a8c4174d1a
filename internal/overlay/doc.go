// Package overlay loads, merges, and validates the YAML configuration layers
// consumed by the external workflow framework.
//
// Config files are layered in a fixed precedence order: the base
// geography/solver file first, then scenario technology overrides. Merging is
// a real nested merge (maps recurse, scalars and lists replace), which
// replaces the copy-base-over-default file shuffle the original batch
// scripts needed to work around the framework's shallow config update.
//
// Validation runs before any cluster resource is requested and catches the
// failure modes that are expensive or silent on the cluster side: weight
// sums above one, weights for countries outside the modeled set, and the
// nested-focus_weights placement footgun.
package overlay
