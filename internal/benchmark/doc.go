// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a lint pass:
//   - CUE configuration validation and layering
//   - Target discovery over a generated source tree
//   - Invocation building and the upward config search
//   - End-to-end discovery, planning and execution
//
// To generate a profile, run:
//
//	go test -run='^$' -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
