// Package cpuinfo wraps klauspost/cpuid to pick a default worker count and
// print a diagnostic CPU banner.
package cpuinfo

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"
)

// Threads returns the default worker count for ParallelFactorizer: the
// number of physical cores.
func Threads() int {
	if cpuid.CPU.PhysicalCores > 0 {
		return cpuid.CPU.PhysicalCores
	}
	return 1
}

// Banner formats a one-line diagnostic CPU summary.
func Banner() string {
	return fmt.Sprintf("CPU: %s, %d Hz, %d physical cores", cpuid.CPU.BrandName, cpuid.CPU.Hz, cpuid.CPU.PhysicalCores)
}
