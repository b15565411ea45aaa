package stat

import (
	"sort"

	sent "github.com/revelaction/annotator/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	// number of tokens per part-of-speech tag
	PosDis map[string]int
}

// PosCount is a part-of-speech tag and its number of tokens
type PosCount struct {
	Pos   string
	Count int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{TokensPerSentenceDis: map[int]int{}, PosDis: map[string]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the sentences of doc to the stats. It can be called for
// several docs.
func (h *Handler) Aggregate(doc sent.Doc) {
	h.stats.NumSentences += len(doc.Sentences)
	for _, sentence := range doc.Sentences {
		h.stats.NumTokens += len(sentence)
		h.stats.TokensPerSentenceDis[len(sentence)]++
		for _, t := range sentence {
			h.stats.PosDis[t.Pos()]++
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}

// TopPos returns the part-of-speech tags by descending number of tokens.
func (s Stats) TopPos() []PosCount {
	counts := make([]PosCount, 0, len(s.PosDis))
	for pos, c := range s.PosDis {
		counts = append(counts, PosCount{Pos: pos, Count: c})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Pos < counts[j].Pos
	})

	return counts
}
