// Package action wraps concrete notification backends (log, webhook,
// process, email) with a name, static placeholders and a per-trigger
// timeout.
//
// The wrapper races every backend invocation against the timeout and
// abandons the call when the deadline passes; backends must therefore be
// safe to leave running in the background. Disabled actions share the same
// construction and logging path but never reach a backend.
//
// Map is the process-wide registry built once at startup; it is read-only
// afterwards and shared by all checks.
package action
