// Package report implements periodic heartbeat events: actions triggered
// on a fixed interval regardless of alarm state, so an agent that has
// nothing to alarm about still proves it is alive.
package report
