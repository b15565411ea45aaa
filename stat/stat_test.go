package stat

import (
	"reflect"
	"testing"

	sent "github.com/revelaction/annotator/sentence"
)

func TestAggregate(t *testing.T) {
	doc := sent.Doc{Sentences: []sent.Sentence{
		{sent.NewToken("Cats", "cat", "NNS", ""), sent.NewToken("sleep", "sleep", "VBP", ""), sent.NewToken(".", ".", ".", "")},
		{sent.NewToken("Dogs", "dog", "NNS", ""), sent.NewToken("bark", "bark", "VBP", ""), sent.NewToken("loudly", "loudly", "RB", ""), sent.NewToken(".", ".", ".", "")},
	}}

	h := NewHandler()
	h.Aggregate(doc)
	s := h.Get()

	if s.NumSentences != 2 || s.NumTokens != 7 || s.TokensPerSentenceMean != 3 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.TokensPerSentenceDis[3] != 1 || s.TokensPerSentenceDis[4] != 1 {
		t.Fatalf("unexpected length distribution %v", s.TokensPerSentenceDis)
	}

	want := []PosCount{{".", 2}, {"NNS", 2}, {"VBP", 2}, {"RB", 1}}
	if got := s.TopPos(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	h := NewHandler()
	h.Aggregate(sent.Doc{})
	s := h.Get()
	if s.NumSentences != 0 || s.TokensPerSentenceMean != 0 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if len(s.TopPos()) != 0 {
		t.Fatalf("expected no pos counts")
	}
}
