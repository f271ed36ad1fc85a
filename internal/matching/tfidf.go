package matching

import (
	"errors"
	"math"
	"regexp"
	"slices"
	"strings"
)

// ErrEmptyVocabulary is returned by Similarity when no document has a token left after
// stop word removal.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words")

// A token is a maximal run of at least two word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokens lower-cases text and returns its tokens without stop words, in text order.
func Tokens(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if isStopWord(t) {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Similarity returns the TF-IDF cosine similarity of a and b scaled to [0, 100].
// Weights are raw term counts times the smoothed inverse document frequency
// ln((1+n)/(1+df))+1 computed over the two documents.
func Similarity(a, b string) (float64, error) {
	counts := []map[string]float64{termCounts(Tokens(a)), termCounts(Tokens(b))}

	df := make(map[string]int)
	for _, doc := range counts {
		for term := range doc {
			df[term]++
		}
	}
	if len(df) == 0 {
		return 0, ErrEmptyVocabulary
	}

	// Summing in a fixed order keeps results bit-for-bit reproducible.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	slices.Sort(terms)

	n := float64(len(counts))
	vectors := make([][]float64, len(counts))
	for i, doc := range counts {
		vec := make([]float64, len(terms))
		for j, term := range terms {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			vec[j] = doc[term] * idf
		}
		vectors[i] = normalize(vec)
	}

	var dot float64
	for j := range terms {
		dot += vectors[0][j] * vectors[1][j]
	}

	return min(max(dot*100, 0), 100), nil
}

func termCounts(tokens []string) map[string]float64 {
	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// normalize scales vec to unit length. A zero vector is returned unchanged.
func normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}

	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
