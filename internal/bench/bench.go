// Package bench holds comparison benchmarks between this module's jq255e
// and jq255s groups and btcec/v2's secp256k1 (the curve the teacher module
// itself wrapped), plus a startup diagnostic over klauspost/cpuid/v2's
// detected feature set. The diagnostic is informational only: it never
// branches on secret data, matching spec.md 5's constant-time discipline
// for everything upstream of it — this package exists purely to put
// numbers next to the teacher's curve for context, not to participate in
// any cryptographic operation.
package bench

import (
	"fmt"
	"io"

	"github.com/klauspost/cpuid/v2"
)

// CPUFeatureReport returns a short human-readable line naming the detected
// CPU's relevant SIMD feature set, the same informational check the
// teacher's dependency surface makes available via cpuid.CPU but that
// this module's constant-time field/scalar code deliberately never
// consults at runtime (see internal/gf255, internal/scalar254: no
// CPU-feature branches, per spec.md 5 and spec.md 9's SIMD note).
func CPUFeatureReport() string {
	return fmt.Sprintf("cpu=%s avx2=%v avx512=%v sse2=%v",
		cpuid.CPU.BrandName, cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.AVX512F), cpuid.CPU.Supports(cpuid.SSE2))
}

// PrintCPUFeatureReport writes CPUFeatureReport's line to w, for use as a
// one-time startup diagnostic.
func PrintCPUFeatureReport(w io.Writer) {
	fmt.Fprintln(w, CPUFeatureReport())
}
