// Package dynamo provides the shared primitives of the vehicle simulator.
//
// The package defines the small value types and helpers that every other
// package builds on:
//
//   - [Vec2]: planar vector used for positions, velocities and forces
//   - [Clamp], [Sign]: scalar helpers with the conventions the model relies on
//   - [ParallelFor]: chunked fan-out used to step independent vehicles
//
// Domain errors shared across packages live in errors.go and are prefixed
// with "dynamo:" so they are recognisable when wrapped.
//
// # Thread Safety
//
// Every type here is a plain value. Nothing in the package holds mutable
// shared state.
package dynamo
