package filter

import (
	"reflect"
	"testing"

	"github.com/glabrego/alienfeed/internal/news"
)

func sample() []news.Item {
	return []news.Item{
		{URL: "1", Title: "Foo Bar summit", Domain: "a.com", Category: "news"},
		{URL: "2", Title: "Bar exam results", Domain: "b.com", Category: "worldnews", IsNew: true},
		{URL: "3", Title: "Cat video", Domain: "youtube.com", Category: "videos", IsBookmarked: true},
		{URL: "4", Title: "Quiet day", Domain: "c.org", Category: "technology", IsRead: true},
	}
}

func TestApply_MuteBeforeMode(t *testing.T) {
	items := []news.Item{{URL: "x", Title: "foo bar"}}
	got := Apply(items, Criteria{Mute: []string{"foo"}, Highlight: []string{"bar"}, Mode: news.ModeHighlights})
	if len(got) != 0 {
		t.Fatalf("expected muted item to be excluded before highlight mode, got %v", got)
	}
}

func TestApply_OrderingHoldsForEveryMode(t *testing.T) {
	items := sample()
	for _, mode := range news.Modes {
		c := Criteria{Mute: []string{"BAR"}, Highlight: []string{"bar", "video"}, Mode: mode, Query: "a"}
		for _, idx := range Apply(items, c) {
			if IsHighlighted(items[idx], c.Mute) {
				t.Fatalf("mode %s: muted item %q survived", mode, items[idx].Title)
			}
		}
	}
}

func TestApply_Modes(t *testing.T) {
	items := sample()
	cases := []struct {
		mode news.Mode
		want []int
	}{
		{news.ModeAll, []int{0, 1, 2, 3}},
		{news.ModeUnseen, []int{1}},
		{news.ModeBookmarks, []int{2}},
		{news.ModeRead, []int{3}},
		{news.ModeHighlights, []int{0, 1}},
		{news.ModeVideo, []int{2}},
	}
	for _, tc := range cases {
		got := Apply(items, Criteria{Mode: tc.mode, Highlight: []string{" bar "}})
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("mode %s: expected %v, got %v", tc.mode, tc.want, got)
		}
	}
}

func TestApply_QueryMatchesTitleDomainOrCategory(t *testing.T) {
	items := sample()
	cases := map[string][]int{
		"SUMMIT":     {0},
		"youtube":    {2},
		"technology": {3},
		"":           {0, 1, 2, 3},
		"zzz":        {},
	}
	for q, want := range cases {
		got := Apply(items, Criteria{Query: q})
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("query %q: expected %v, got %v", q, want, got)
		}
	}
}

func TestApply_DoesNotMutateItems(t *testing.T) {
	items := sample()
	before := sample()
	_ = Apply(items, Criteria{Mute: []string{"cat"}, Mode: news.ModeUnseen, Query: "bar"})
	if !reflect.DeepEqual(items, before) {
		t.Fatal("expected items to be unchanged")
	}
	if got := Apply(nil, Criteria{}); len(got) != 0 {
		t.Fatalf("expected empty result for no items, got %v", got)
	}
}
