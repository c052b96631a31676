// Package control provides drivers: sources of per-tick vehicle input.
//
// Drivers implement [sim.Driver] and turn the current vehicle state into a
// [physics.Input]:
//
//   - [None]: coasts with zero input
//   - [Keyboard]: held-key state from an interactive session
//   - [Script]: timed input segments loaded from a scenario file
//   - [Cruise]: PID speed hold with a fixed steering command
//
// The physics core does not range-check inputs. Drivers that take values
// from outside the program pass them through [Clamp] first.
package control
