package core

// Itoa converts an integer to a string without using the fmt package,
// which keeps firmware images small.
func Itoa(n int64) string {
	if n >= 0 {
		return Utoa64(uint64(n))
	}
	// Negate in unsigned space so math.MinInt64 is handled
	return "-" + Utoa64(uint64(-(n + 1))+1)
}

// Utoa converts an unsigned 32-bit integer to a string
func Utoa(n uint32) string {
	return Utoa64(uint64(n))
}

// Utoa64 converts an unsigned 64-bit integer to a string
func Utoa64(n uint64) string {
	if n == 0 {
		return "0"
	}

	// Build string from right to left; 20 digits hold uint64 max
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}
