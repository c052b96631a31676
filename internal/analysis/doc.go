// Package analysis extracts handling characteristics from recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: frequency content of a signal
//     such as yaw rate through a slalom
//   - [SideslipPhase]: the sideslip angle versus yaw rate plane, where a
//     car that holds its line stays near the origin and a spin runs away
//     from it
//   - [PhasePortraitToASCII]: terminal scatter plot of a phase trajectory
//
// Example:
//
//	hz := analysis.DominantFrequency(yawRates, dt)
//	fmt.Print(analysis.PhasePortraitToASCII(analysis.SideslipPhase(states), 60, 20))
package analysis
