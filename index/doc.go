// Package index provides the contract shared by all knngo search indexes.
//
// Four index types implement SearchMethod:
//
//   - kdtree: balanced level-order KD-tree (branch-and-bound pruning)
//   - voxel: uniform grid with metric-shaped shell scans (L1/L2/Linf only)
//   - linear: exhaustive scan (the correctness oracle)
//   - ensemble: races the others and merges their results
//
// # Index Selection
//
// The KD-tree is the all-rounder. The voxel grid wins on dense, uniformly
// distributed, low-dimensional data and loses on high-dimensional or heavily
// clustered data. The linear scan is the baseline. The ensemble bounds
// worst-case latency by racing KD-tree and voxel at the cost of extra work.
package index
