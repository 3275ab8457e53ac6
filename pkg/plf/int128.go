package plf

import "math/bits"

// int128 is a two's complement signed 128-bit integer. Only the handful of
// operations needed by the integral are provided.
type int128 struct {
	hi, lo uint64
}

func (a int128) negative() bool {
	return a.hi>>63 != 0
}

func (a int128) neg() int128 {
	lo, borrow := bits.Sub64(0, a.lo, 0)
	hi, _ := bits.Sub64(0, a.hi, borrow)
	return int128{hi: hi, lo: lo}
}

func (a int128) sub(b int128) int128 {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	hi, _ := bits.Sub64(a.hi, b.hi, borrow)
	return int128{hi: hi, lo: lo}
}

// mul128 returns the exact product of two signed 64-bit values.
func mul128(a, b int64) int128 {
	negative := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(abs64(a), abs64(b))
	r := int128{hi: hi, lo: lo}
	if negative {
		return r.neg()
	}
	return r
}

// quo divides by a positive divisor, truncating toward zero. The quotient
// must fit into 64 bits.
func (a int128) quo(d uint64) int64 {
	if a.negative() {
		return -int64(a.neg().uquo(d))
	}
	return int64(a.uquo(d))
}

func (a int128) uquo(d uint64) uint64 {
	q, _ := bits.Div64(a.hi, a.lo, d)
	return q
}

func abs64(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}
