package rag

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/airclass/airclass/internal/model"
)

// Store holds the course knowledge base. The chunk set is fixed after
// construction and safe for concurrent reads.
type Store struct {
	chunks []model.Chunk
}

func NewStore(chunks []model.Chunk) *Store {
	return &Store{chunks: chunks}
}

// NewDefaultStore builds a store from the built-in knowledge base plus any
// extra chunks found at extraPath (optional, JSON array of chunks).
func NewDefaultStore(extraPath string) (*Store, error) {
	chunks := DefaultChunks()
	if extraPath != "" {
		extra, err := loadChunkFile(extraPath)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, extra...)
	}
	return NewStore(chunks), nil
}

func loadChunkFile(path string) ([]model.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chunk file: %w", err)
	}
	var chunks []model.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("decode chunk file: %w", err)
	}
	return chunks, nil
}

func (s *Store) Len() int {
	return len(s.chunks)
}

type scoredChunk struct {
	chunk model.Chunk
	score int
}

// Retrieve filters chunks to the (courseID, lessonID) scope, scores them
// against the query terms and returns at most limit chunks ordered by
// descending score. Course-wide chunks (no LessonID) match every lesson of
// their course. Equal scores keep store insertion order. Never errors; an
// empty query or empty store yields an empty result.
func (s *Store) Retrieve(query, courseID, lessonID string, limit int) []model.Chunk {
	if limit <= 0 {
		return nil
	}
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil
	}
	terms := strings.Fields(queryLower)
	if len(terms) == 0 {
		terms = []string{queryLower}
	}

	scored := make([]scoredChunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		if chunk.CourseID != courseID {
			continue
		}
		if lessonID != "" && chunk.LessonID != "" && chunk.LessonID != lessonID {
			continue
		}
		score := scoreChunk(chunk, terms)
		if score == 0 {
			continue
		}
		scored = append(scored, scoredChunk{chunk: chunk, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if limit > len(scored) {
		limit = len(scored)
	}
	result := make([]model.Chunk, 0, limit)
	for i := 0; i < limit; i++ {
		result = append(result, scored[i].chunk)
	}
	return result
}

// scoreChunk gives +1 per term found anywhere in the chunk text and +1 for
// each keyword matching a term as a substring in either direction, so one
// term can score more than once through multiple keywords.
func scoreChunk(chunk model.Chunk, terms []string) int {
	haystack := strings.ToLower(chunk.Title + " " + chunk.Content + " " + strings.Join(chunk.Keywords, " "))
	score := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			score++
		}
		for _, keyword := range chunk.Keywords {
			kw := strings.ToLower(keyword)
			if strings.Contains(kw, term) || strings.Contains(term, kw) {
				score++
			}
		}
	}
	return score
}
