package comm

// Checksum sums all bytes modulo 256.
func Checksum(p []byte) (sum byte) {
	for _, b := range p {
		sum += b
	}
	return
}
