package byteutils

// Concat appends the given byte slices into a single freshly allocated slice.
// Called without arguments it returns nil.
func Concat(byteSlices ...[]byte) []byte {
	var length int
	for _, byteSlice := range byteSlices {
		length += len(byteSlice)
	}
	if length == 0 {
		return nil
	}

	result := make([]byte, 0, length)
	for _, byteSlice := range byteSlices {
		result = append(result, byteSlice...)
	}

	return result
}
