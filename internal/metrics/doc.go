// Package metrics provides sim.Metric implementations that summarise a
// driving run into scalars.
package metrics
