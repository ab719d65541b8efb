package keywords

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCollectKeepsOnlyNouns(t *testing.T) {
	e := &Extractor{lemma: func(word string) string {
		return strings.TrimSuffix(word, "s")
	}}

	got := e.collect([]taggedToken{
		{text: "Engineers", tag: "NNS"},
		{text: "build", tag: "VBP"},
		{text: "scalable", tag: "JJ"},
		{text: "services", tag: "NNS"},
		{text: "Kubernetes", tag: "NNP"},
		{text: "AWS", tag: "NNP"},
		{text: "Go", tag: "NNP"},
		{text: "ML", tag: "NN"},
		{text: "others", tag: "NNS"},
		{text: "---", tag: "NN"},
		{text: "services", tag: "NNS"},
	})

	want := []string{"aws", "engineer", "kubernetes", "service"}
	if sorted := got.Sorted(); strings.Join(sorted, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, sorted)
	}
}

func TestCollectDropsShortLemmas(t *testing.T) {
	e := &Extractor{lemma: func(string) string { return "ax" }}

	got := e.collect([]taggedToken{{text: "axes", tag: "NNS"}})
	if got.Len() != 0 {
		t.Fatalf("expected short lemma to be dropped, got %v", got.Sorted())
	}
}

func TestCollectProperNounsAreNotLemmatized(t *testing.T) {
	e := &Extractor{lemma: func(string) string { return "wrong" }}

	got := e.collect([]taggedToken{{text: "Kubernetes", tag: "NNPS"}})
	if !got.Has("kubernetes") {
		t.Fatalf("expected proper noun kept verbatim, got %v", got.Sorted())
	}
}

func TestExtractEmpty(t *testing.T) {
	e := &Extractor{}

	for _, text := range []string{"", "   \n\t"} {
		got, err := e.Extract(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.Len() != 0 {
			t.Fatalf("expected empty set for %q, got %v", text, got)
		}
	}
}

func TestExtractProperties(t *testing.T) {
	e, err := Default()
	if err != nil {
		t.Fatalf("building extractor: %v", err)
	}

	text := "The engineers build reliable services. Our team uses Python, SQL and Docker on AWS. " +
		"Experience with Kubernetes clusters is a plus; an MBA is not required."

	first, err := e.Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(first.Sorted(), ",") != strings.Join(second.Sorted(), ",") {
		t.Fatalf("extraction must be deterministic: %v vs %v", first.Sorted(), second.Sorted())
	}

	if first.Len() == 0 {
		t.Fatalf("expected some keywords")
	}

	for kw := range first {
		if utf8.RuneCountInString(kw) <= 2 {
			t.Fatalf("keyword %q is too short", kw)
		}
		if kw != strings.ToLower(kw) {
			t.Fatalf("keyword %q is not lowercase", kw)
		}
		if IsStopWord(kw) {
			t.Fatalf("keyword %q is a stop word", kw)
		}
	}

	if first.Has("reliable") {
		t.Fatalf("adjectives must not be extracted: %v", first.Sorted())
	}
}

func TestDefaultIsShared(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := Default()
	if a != b {
		t.Fatalf("expected the same extractor instance")
	}
}
