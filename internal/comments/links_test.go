package comments

import (
	"reflect"
	"testing"
)

func TestExtractLinks_MarkdownTakesPrecedence(t *testing.T) {
	body := "See [the paper](https://example.com/paper) and https://example.com/paper, plus https://other.org/x."
	got := ExtractLinks(body)
	want := []Link{
		{Text: "the paper", URL: "https://example.com/paper"},
		{Text: "https://other.org/x", URL: "https://other.org/x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected links:\n got %+v\nwant %+v", got, want)
	}
}

func TestExtractLinks_EmptyAndDuplicates(t *testing.T) {
	if got := ExtractLinks("no links here"); len(got) != 0 {
		t.Fatalf("expected no links, got %+v", got)
	}
	got := ExtractLinks("[](http://a.com) http://b.com http://b.com")
	if len(got) != 2 || got[0].Text != "http://a.com" || got[1].URL != "http://b.com" {
		t.Fatalf("unexpected links: %+v", got)
	}
}

func TestExtractLinks_ParenthesesInTarget(t *testing.T) {
	got := ExtractLinks("[Go](https://en.wikipedia.org/wiki/Go_(language)) is [short](https://go.dev).")
	want := []Link{
		{Text: "Go", URL: "https://en.wikipedia.org/wiki/Go_(language)"},
		{Text: "short", URL: "https://go.dev"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected links:\n got %+v\nwant %+v", got, want)
	}
}
