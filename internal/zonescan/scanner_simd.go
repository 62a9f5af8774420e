//go:build goexperiment.simd && amd64

package zonescan

import (
	"simd/archsimd"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// =============================================================================
// AVX-512 CPU Detection and Fallback
// =============================================================================
//
// NOTE: simd/archsimd is an experimental Go 1.26 package enabled via
// GOEXPERIMENT=simd, AMD64-only for now; a portable SIMD package is planned
// separately. See https://github.com/golang/go/issues/73787 and
// https://go.dev/doc/go1.26.
//
// archsimd.Int8x32.Equal().ToBits() lowers to VPMOVB2M, which requires
// AVX-512BW and SIGILLs on CPUs that lack it (this includes most hosted CI
// runners), so useAVX512 must be checked before ever calling the vector
// path below.
//
// TODO: drop the cpu.X86 probe for an archsimd-native feature check if one
// is ever added (issue #73787 leaves this open).

var useAVX512 bool

func init() {
	useAVX512 = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL
	if useAVX512 {
		generateMasks = generateMasksDispatch
	}
}

// generateMasksDispatch is installed over the scalar generateMasks default
// when the host CPU supports AVX-512; it still falls back to the scalar
// path for nothing in particular today, but keeps the same shape the
// teacher's dispatcher uses so a future AVX2-only tier can slot in beside
// it without touching scanBlock.
func generateMasksDispatch(data *[64]byte) (newline, backslash, quote, semicolon uint64) {
	return generateMasksAVX512(data)
}

// generateMasksAVX512 computes the four structural equality masks for a
// 64-byte block using two 256-bit vector compares per mask.
func generateMasksAVX512(data *[64]byte) (newline, backslash, quote, semicolon uint64) {
	nlCmp := archsimd.BroadcastInt8x32('\n')
	bsCmp := archsimd.BroadcastInt8x32('\\')
	qCmp := archsimd.BroadcastInt8x32('"')
	scCmp := archsimd.BroadcastInt8x32(';')

	ptr := unsafe.Pointer(&data[0])
	low := archsimd.LoadInt8x32((*[32]int8)(ptr))
	high := archsimd.LoadInt8x32((*[32]int8)(unsafe.Add(ptr, 32)))

	nlLow, nlHigh := low.Equal(nlCmp).ToBits(), high.Equal(nlCmp).ToBits()
	bsLow, bsHigh := low.Equal(bsCmp).ToBits(), high.Equal(bsCmp).ToBits()
	qLow, qHigh := low.Equal(qCmp).ToBits(), high.Equal(qCmp).ToBits()
	scLow, scHigh := low.Equal(scCmp).ToBits(), high.Equal(scCmp).ToBits()

	newline = uint64(nlLow) | uint64(nlHigh)<<32
	backslash = uint64(bsLow) | uint64(bsHigh)<<32
	quote = uint64(qLow) | uint64(qHigh)<<32
	semicolon = uint64(scLow) | uint64(scHigh)<<32
	return
}
