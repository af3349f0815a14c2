package scoring

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode"

	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

// ContentMatch is a candidate document the local scorer compares against.
type ContentMatch struct {
	Title     string
	Author    string
	BucketID  string
	Content   string
	Timestamp time.Time
}

// CorpusLookup supplies the latest stored version of a cross-author title
// match, or nil when no other author has registered the title.
type CorpusLookup interface {
	LatestByTitle(ctx context.Context, title string, excludeAuthor string) (*ContentMatch, error)
}

// LocalScorer is an in-process similarity oracle for dev and test wiring. It
// compares the submission against the latest stored version of the same
// title by another author using TF-IDF weighted cosine similarity.
type LocalScorer struct {
	corpus CorpusLookup
}

func NewLocalScorer(corpus CorpusLookup) *LocalScorer {
	return &LocalScorer{corpus: corpus}
}

func (s *LocalScorer) Score(ctx context.Context, title, content string, author domain.AuthorAddress) (*Result, error) {
	match, err := s.corpus.LatestByTitle(ctx, title, author.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "corpus lookup failed")
	}
	if match == nil {
		return &Result{SimilarityPercent: 0, IsOriginal: true}, nil
	}

	similarity := Similarity(content, match.Content)
	return &Result{
		SimilarityPercent: similarity,
		IsOriginal:        similarity < 30,
		SimilarPapers: []SimilarPaper{{
			Title:             match.Title,
			Author:            match.Author,
			SimilarityPercent: similarity,
			BucketID:          match.BucketID,
			Timestamp:         match.Timestamp,
		}},
	}, nil
}

// Similarity returns the TF-IDF weighted cosine similarity of two texts as a
// percentage in [0, 100].
func Similarity(a, b string) float64 {
	tokensA := preprocess(a)
	tokensB := preprocess(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	countsA := termCounts(tokensA)
	countsB := termCounts(tokensB)

	// Smoothed idf over the two-document corpus, then l2-normalized vectors.
	idf := func(term string) float64 {
		df := 0
		if countsA[term] > 0 {
			df++
		}
		if countsB[term] > 0 {
			df++
		}
		return math.Log(float64(1+2)/float64(1+df)) + 1
	}

	vocab := make(map[string]struct{}, len(countsA)+len(countsB))
	for term := range countsA {
		vocab[term] = struct{}{}
	}
	for term := range countsB {
		vocab[term] = struct{}{}
	}

	var dot, normA, normB float64
	for term := range vocab {
		w := idf(term)
		wa := float64(countsA[term]) * w
		wb := float64(countsB[term]) * w
		dot += wa * wb
		normA += wa * wa
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)) * 100
}

func preprocess(text string) []string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsDigit(r):
			// dropped
		case unicode.IsLetter(r) || r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}

	fields := strings.Fields(sb.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// English stop words, the NLTK list.
var stopWords = func() map[string]struct{} {
	words := []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"your", "yours", "yourself", "yourselves", "he", "him", "his",
		"himself", "she", "her", "hers", "herself", "it", "its", "itself",
		"they", "them", "their", "theirs", "themselves", "what", "which",
		"who", "whom", "this", "that", "these", "those", "am", "is", "are",
		"was", "were", "be", "been", "being", "have", "has", "had", "having",
		"do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
		"or", "because", "as", "until", "while", "of", "at", "by", "for",
		"with", "about", "against", "between", "into", "through", "during",
		"before", "after", "above", "below", "to", "from", "up", "down",
		"in", "out", "on", "off", "over", "under", "again", "further",
		"then", "once", "here", "there", "when", "where", "why", "how",
		"all", "any", "both", "each", "few", "more", "most", "other",
		"some", "such", "no", "nor", "not", "only", "own", "same", "so",
		"than", "too", "very", "s", "t", "can", "will", "just", "don",
		"should", "now",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
