// Package dispatch is the drone dispatch decision engine: it estimates package
// weight and order urgency, scores (drone, order) pairs and picks the best
// drone for an order.
//
// Everything here is pure and synchronous. Inputs are read-only snapshots;
// callers own persistence and the discipline that keeps two concurrent
// dispatch attempts from claiming the same drone.
//
// Units: kilometers, km/h, kilograms, battery and percentages as 0-100,
// minutes. The scoring weights are calibrated to exactly these units.
package dispatch
