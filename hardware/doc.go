// Package hardware collects the CPU-island, memory and per-run-instance
// sub-packages that make up the emulated console, excluding the GPU
// pipeline (see the gpu package) and the scheduler (see the scheduler
// package).
package hardware
