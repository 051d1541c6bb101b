package indexer

import (
	"log/slog"
	"math"
	"sort"
	"strings"
)

// IngestStats summarises one ingestion run.
type IngestStats struct {
	// FilesSeen is the number of PDFs found in the folder.
	FilesSeen int `json:"files_seen"`
	// FilesIngested is the number of PDFs whose chunks were all uploaded.
	FilesIngested int `json:"files_ingested"`
	// FilesSkipped is the number of unchanged PDFs left alone.
	FilesSkipped int `json:"files_skipped"`
	// FilesFailed is the number of PDFs that could not be fully ingested.
	FilesFailed int `json:"files_failed"`
	// ChunksAttempted is the number of chunks sent for embedding and upload.
	ChunksAttempted int `json:"chunks_attempted"`
	// ChunksUploaded is the number of chunks the vector store accepted.
	ChunksUploaded int `json:"chunks_uploaded"`
	// ChunksFailed is the number of chunks rejected or never uploaded.
	ChunksFailed int `json:"chunks_failed"`
	// ChunkWords describes the size of the chunks produced this run.
	ChunkWords ChunkWordStats `json:"chunk_words"`

	wordCounts []int
}

// ChunkWordStats contains statistics about word counts in chunks.
type ChunkWordStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// recordChunks adds the word counts of chunks to the run statistics.
func (s *IngestStats) recordChunks(chunks []string) {
	for _, c := range chunks {
		s.wordCounts = append(s.wordCounts, len(strings.Fields(c)))
	}
	s.ChunkWords = computeWordStats(s.wordCounts)
}

// LogValue implements slog.LogValuer so a run can be logged as one group.
func (s IngestStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("files_seen", s.FilesSeen),
		slog.Int("files_ingested", s.FilesIngested),
		slog.Int("files_skipped", s.FilesSkipped),
		slog.Int("files_failed", s.FilesFailed),
		slog.Int("chunks_attempted", s.ChunksAttempted),
		slog.Int("chunks_uploaded", s.ChunksUploaded),
		slog.Int("chunks_failed", s.ChunksFailed),
		slog.Int("chunk_words_max", s.ChunkWords.Max),
		slog.Float64("chunk_words_mean", s.ChunkWords.Mean),
	)
}

// computeWordStats computes min, max, mean, and p95 from word counts.
func computeWordStats(counts []int) ChunkWordStats {
	if len(counts) == 0 {
		return ChunkWordStats{}
	}

	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	sum := 0
	for _, c := range sorted {
		sum += c
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkWordStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
