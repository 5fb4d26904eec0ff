// Package sched packs unscheduled statement groups into hardware-legal
// sequential/parallel layouts by greedy left-to-right list scheduling.
//
// The scheduler is the pipeline's one sanctioned in-place mutator: it
// rewrites unscheduled BlockStatements to sequential blocks of parallel
// slots. It runs post-order so inner blocks settle before the blocks that
// contain them, and it is idempotent: blocks that already carry a fixed
// ordering only get their children visited.
package sched
