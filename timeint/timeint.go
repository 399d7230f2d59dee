// Package timeint defines the unsigned integer types that can hold a tick
// count and the overflow-checked arithmetic the time engine relies on.
//
// All operations promote to 64 bits (or 128 bits via math/bits for
// multiply-divide) before narrowing back, so a uint32 counter never
// overflows silently.
package timeint

import "math/bits"

// TimeInt is the set of tick counter representations.
type TimeInt interface {
	~uint32 | ~uint64
}

// Max returns the largest value of T.
func Max[T TimeInt]() T {
	return ^T(0)
}

// Bits returns the width of T in bits.
func Bits[T TimeInt]() int {
	if uint64(Max[T]()) == uint64(^uint32(0)) {
		return 32
	}
	return 64
}

// FromUint64 narrows v to T, reporting false if it does not fit.
func FromUint64[T TimeInt](v uint64) (T, bool) {
	if v > uint64(Max[T]()) {
		return 0, false
	}
	return T(v), true
}

// CheckedAdd returns a+b, or false on overflow.
func CheckedAdd[T TimeInt](a, b T) (T, bool) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, false
	}
	return FromUint64[T](sum)
}

// CheckedSub returns a-b, or false if b > a.
func CheckedSub[T TimeInt](a, b T) (T, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// CheckedMul returns a*b, or false on overflow.
func CheckedMul[T TimeInt](a, b T) (T, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 {
		return 0, false
	}
	return FromUint64[T](lo)
}

// CheckedDiv returns a/b, or false if b is zero.
func CheckedDiv[T TimeInt](a, b T) (T, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

// WrappingAdd returns a+b modulo 2^Bits[T].
func WrappingAdd[T TimeInt](a, b T) T {
	return a + b
}

// WrappingSub returns a-b modulo 2^Bits[T].
func WrappingSub[T TimeInt](a, b T) T {
	return a - b
}

// MulDiv computes v*p/q with a 128-bit intermediate product.
// ok is false when q is zero or the quotient does not fit in 64 bits.
func MulDiv(v, p, q uint64) (quo, rem uint64, ok bool) {
	if q == 0 {
		return 0, 0, false
	}
	hi, lo := bits.Mul64(v, p)
	if hi >= q {
		return 0, 0, false
	}
	quo, rem = bits.Div64(hi, lo, q)
	return quo, rem, true
}

// CompareProducts compares a*p with b*q without overflow.
func CompareProducts(a, p, b, q uint64) int {
	ahi, alo := bits.Mul64(a, p)
	bhi, blo := bits.Mul64(b, q)
	switch {
	case ahi < bhi:
		return -1
	case ahi > bhi:
		return 1
	case alo < blo:
		return -1
	case alo > blo:
		return 1
	}
	return 0
}
