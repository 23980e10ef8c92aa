// Package revshare implements the tiered revenue-share calculation.
//
// Contributors are ranked Main, Assistant, Thanks or Fan. Revenue is split
// in proportion to tier weights (1, 0.5 and 0.167; Fan is unpaid), and a
// fairness floor guarantees the Main tier a minimum fraction of revenue
// when it is heavily outnumbered. A Calculation can be frozen into a
// PayoutRecord carrying a BLAKE2b digest of its financial content.
//
// Everything here is pure: no I/O, no logging, no shared state.
package revshare
