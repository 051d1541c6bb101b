package indexer

import "strings"

// ChunkText splits text into windows of chunkSize words. Consecutive windows
// share overlap words; the window start always advances by at least one word,
// so any overlap terminates. The last chunk may be shorter than chunkSize.
// Text with no words yields no chunks.
func ChunkText(text string, chunkSize, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if chunkSize < 1 {
		chunkSize = 1
	}
	step := max(chunkSize-overlap, 1)

	chunks := make([]string, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := min(start+chunkSize, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
