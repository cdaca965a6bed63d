package pipeline

// Batches partitions keywords into order-preserving chunks of at most
// size elements; only the final chunk may be shorter. The chunks are
// views into the input slice, never copies.
func Batches(keywords []string, size int) ([][]string, error) {
	if size <= 0 {
		return nil, &ConfigError{Field: "batch_size", Reason: "must be positive"}
	}

	batches := make([][]string, 0, (len(keywords)+size-1)/size)
	for i := 0; i < len(keywords); i += size {
		end := i + size
		if end > len(keywords) {
			end = len(keywords)
		}
		batches = append(batches, keywords[i:end])
	}
	return batches, nil
}
