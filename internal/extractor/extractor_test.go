package extractor_test

import (
	"reflect"
	"testing"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/extractor"
)

func TestExtractMatchesKeywordSentences(t *testing.T) {
	ex := extractor.New(nil)

	got := ex.Extract("This is an action. This is unrelated.")
	want := []string{"This is an action"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractEmptyTranscript(t *testing.T) {
	ex := extractor.New(nil)

	got := ex.Extract("")
	if got == nil {
		t.Fatal("Extract() returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("Extract() = %v, want empty", got)
	}
}

func TestExtractNoPunctuationIsSingleSentence(t *testing.T) {
	ex := extractor.New(nil)

	got := ex.Extract("remember the deadline for the report")
	want := []string{"remember the deadline for the report"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractSubstringMatch(t *testing.T) {
	ex := extractor.New(nil)

	// "review" matches inside "reviewed"; matching is substring based.
	got := ex.Extract("The document was reviewed yesterday. Nothing else happened.")
	want := []string{"The document was reviewed yesterday"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	ex := extractor.New(nil)

	got := ex.Extract("ACTION: ship the release! We also chatted.")
	want := []string{"ACTION: ship the release"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractKeepsDuplicatesInOrder(t *testing.T) {
	ex := extractor.New(nil)

	got := ex.Extract("Review the doc. Something else. Review the doc.")
	want := []string{"Review the doc", "Review the doc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractCustomKeywords(t *testing.T) {
	ex := extractor.New([]string{"Ship"})

	got := ex.Extract("We will ship on Friday. Review the doc.")
	want := []string{"We will ship on Friday"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractDeterministic(t *testing.T) {
	ex := extractor.New(nil)
	transcript := "Assign the ticket to Sam. Follow-up with legal? We laughed a lot."

	first := ex.Extract(transcript)
	for i := 0; i < 5; i++ {
		if got := ex.Extract(transcript); !reflect.DeepEqual(got, first) {
			t.Fatalf("Extract() not deterministic: %v vs %v", got, first)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	got := extractor.SplitSentences("One. Two! Three? ...  Four")
	want := []string{"One", "Two", "Three", "Four"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitSentences() = %v, want %v", got, want)
	}
}
