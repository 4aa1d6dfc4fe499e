// Package cpu reports the hardware concurrency available to the process and
// optionally pins worker goroutines to CPU cores.
package cpu

// Workers resolves a requested worker count. Positive values are returned
// unchanged; anything else falls back to the available hardware concurrency,
// never less than one so a pool always makes progress.
func Workers(requested int) int {
	if requested > 0 {
		return requested
	}
	return max(Available(), 1)
}
