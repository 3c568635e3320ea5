// Package chunker splits translation batches into fixed-size chunks.
package chunker

// DefaultChunkSize is the number of strings sent to the model per request.
// Larger chunks make the numbered-list answer more likely to drift.
const DefaultChunkSize = 20

// Split partitions texts into contiguous chunks of at most size strings.
// Order is preserved and only the last chunk may be shorter. The chunks share
// texts' backing array.
func Split(texts []string, size int) [][]string {
	if len(texts) == 0 {
		return nil
	}

	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make([][]string, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		chunks = append(chunks, texts[start:end:end])
	}

	return chunks
}
