// Package sim runs configurations headless: single runs, seed ensembles
// across a bounded worker pool, and grid searches over physics tuning.
package sim
