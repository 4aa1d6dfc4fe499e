// Package benchmarks holds the throughput and latency benchmarks for the
// worker pool and the async HTTP client.
//
//	go test -bench=. -benchmem ./benchmarks/
package benchmarks
