// Package check owns the per-tick orchestration: a generic check loop that
// polls one data source, feeds every entity's sample (or synthesized error)
// into that entity's alarms, and absorbs all runtime failures into logging.
//
// Concrete sources sample filesystem usage and memory usage via gopsutil
// and process liveness via go-ps. The pairing between a source's item type
// and its sink stays internal to the factory; the rest of the agent only
// deals with the Check interface.
package check
