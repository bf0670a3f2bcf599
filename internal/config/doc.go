// Package config defines the YAML configuration surface of the agent and
// provides helpers to load and validate it.
//
// Validation here is structural (at least one check, unique action names) and
// fills in defaults; per-component limits such as empty names or zero
// timeouts are enforced by the component constructors so the resulting
// errors carry the owning check's context.
package config
