// Command lfq drives contention runs against the lock-free queue and its
// baselines.
//
// Usage:
//
//	go run ./cmd/lfq contention -p 8 -c 8 -n 1000000
//	go run ./cmd/lfq contention --config run.yml --impl mutex
//	go run ./cmd/lfq compare --capacity 1024
//	go run ./cmd/lfq overhead -n 10000000
package main

import (
	"github.com/randomizedcoder/lfq/internal/log"
)

func main() {
	if err := cmdLfq().Execute(); err != nil {
		log.Fatal(nil, "lfq failed", "err", err)
	}
}
