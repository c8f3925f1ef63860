package common

// WipeByteArray overwrites b with zeros. It is used for password buffers
// once they have been sent. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
