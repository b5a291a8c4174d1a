// Package config owns the tool configuration (arcrun.toml) and the scenario
// registry.
//
// Two configuration surfaces exist and must not be confused:
//
//   - arcrun.toml configures arcrun itself: directory layout, cluster
//     submission settings, environment provisioning, and extra scenario
//     declarations. Its schema is ours.
//   - The YAML files a scenario layers together configure the external
//     workflow framework. Their schema is owned by that framework; arcrun
//     only merges and validates them (see the overlay package).
//
// Scenarios are static, hand-edited, version-controlled declarations. They
// are composed at submission time and never mutated at runtime.
package config
