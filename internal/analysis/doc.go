// Package analysis inspects recorded frame series.
//
//   - [PowerSpectrum]: magnitude spectrum of a series with its mean removed
//   - [DominantPeriod]: strongest oscillation period, for example the
//     gravity pulse showing up in kinetic energy
//   - [Summarize]: mean, spread and range
//
// A series sampled at 60 Hz under the default 250 ms gravity cadence
// usually peaks near 250 ms:
//
//	period, _, ok := analysis.DominantPeriod(rec.Series(metrics.SeriesEnergy), time.Second/60)
package analysis
