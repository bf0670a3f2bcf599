// Package agent wires the monitoring agent from configuration (actions,
// checks, report) and runs one independent scheduling loop per check until
// the context is canceled.
package agent
