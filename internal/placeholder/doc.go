// Package placeholder defines the substitution map shared by checks, alarms
// and actions, with merge semantics where the more specific map always wins,
// and a small "{{key}}" template resolver used by action backends.
package placeholder
