// SPDX-License-Identifier: MPL-2.0

// Package runner launches declared lint invocations the way a build host
// would: it prepares each declared output directory, runs the commands with
// bounded parallelism and reports one Result per step in step order.
package runner
