// Package alarm implements the per-entity alarm lifecycle: a state machine
// driven by logical cycles (hysteresis before triggering, repeat
// suppression while alarmed, recovery streaks, an orthogonal error track)
// and the Alarm binding that routes its decisions to the bound actions.
package alarm
