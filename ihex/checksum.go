package ihex

// Checksum computes the Intel HEX record checksum.
// The checksum is the 2's complement of the 8-bit sum of every byte from the
// byte count field through the last data byte.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	// Return 2's complement: invert and add 1
	return ^sum + 1
}
