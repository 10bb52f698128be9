// Package engine implements the SHA-256 compression core specified by
// FIPS 180-4: message padding, parsing into 512-bit blocks, schedule
// expansion and the 64-round compression function.
//
// Sum is pure, total and deterministic. It streams one 64-byte block at a
// time through the compression function; no padded copy of the message is
// ever materialized, so there is no allocation-exhaustion failure mode to
// report (see the host package's error taxonomy).
package engine

import "encoding/binary"

const (
	blockSize = 64 // bytes per 512-bit block
	Size      = 32 // bytes in a digest
)

// initial hash values H0..H7, the fractional parts of the square roots of
// the first eight primes.
var initH = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// round constants K0..K63, the fractional parts of the cube roots of the
// first sixty-four primes.
var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

func rotr(x uint32, n uint) uint32 { return x>>n | x<<(32-n) }

// Sum returns the SHA-256 digest of message.
func Sum(message []byte) [Size]byte {
	h := initH
	length := uint64(len(message)) * 8

	var block [blockSize]byte
	var w [64]uint32

	full := len(message) / blockSize
	for i := 0; i < full; i++ {
		compress(&h, message[i*blockSize:(i+1)*blockSize], &w)
	}
	tail := message[full*blockSize:]

	// Padding: a single 1 bit, then zero bits until length mod 64 == 56,
	// then the original bit length as a big-endian uint64. The tail plus
	// the 1 bit plus the length field may spill into a second block.
	copy(block[:], tail)
	block[len(tail)] = 0x80
	for i := len(tail) + 1; i < blockSize; i++ {
		block[i] = 0
	}

	if len(tail) >= blockSize-8 {
		compress(&h, block[:], &w)
		for i := range block {
			block[i] = 0
		}
	}
	binary.BigEndian.PutUint64(block[blockSize-8:], length)
	compress(&h, block[:], &w)

	var out [Size]byte
	for i, v := range h {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}

// compress runs the 64-round compression function over one 512-bit block,
// updating the running hash state h in place. w is reused scratch space.
func compress(h *[8]uint32, block []byte, w *[64]uint32) {
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4 : i*4+4])
	}
	for i := 16; i < 64; i++ {
		s0 := rotr(w[i-15], 7) ^ rotr(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr(w[i-2], 17) ^ rotr(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]

	for i := 0; i < 64; i++ {
		s1 := rotr(e, 6) ^ rotr(e, 11) ^ rotr(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := hh + s1 + ch + k[i] + w[i]
		s0 := rotr(a, 2) ^ rotr(a, 13) ^ rotr(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		hh, g, f = g, f, e
		e = d + t1
		d, c, b = c, b, a
		a = t1 + t2
	}

	h[0] += a
	h[1] += b
	h[2] += c
	h[3] += d
	h[4] += e
	h[5] += f
	h[6] += g
	h[7] += hh
}

// EffectiveInput returns the prefix of buf up to (but not including) the
// first zero byte — the device's null-terminated input contract (spec
// section 4.1, "Effective input length").
func EffectiveInput(buf []byte) []byte {
	for i, b := range buf {
		if b == 0 {
			return buf[:i]
		}
	}
	return buf
}
