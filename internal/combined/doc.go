// Package combined benchmarks the queues inside the worker loops that use
// them: a stop check, a progress tick and a push or pop per iteration, and
// producer/consumer pipelines across goroutines.
//
// Isolated micro-benchmarks in internal/queue miss the cost of these
// neighbours and the cache traffic between producer and consumer cores.
package combined
