// Package conda provisions the isolated package environment the workflow
// runs in. Environments are always rebuilt from the declarative manifest
// rather than patched in place, and every build leaves two audit snapshots
// (explicit package list, pip freeze) so a past run's environment can be
// reconstructed exactly.
package conda
