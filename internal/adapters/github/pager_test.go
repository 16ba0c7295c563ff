package github

import (
	"context"
	"fmt"
	"testing"
)

// pagedFetch serves a fixed page sequence and records the cursors it saw
func pagedFetch(pages []Page[int], seen *[]string) PageFetch[int] {
	i := 0
	return func(_ context.Context, cursor *string) (Page[int], error) {
		if cursor == nil {
			*seen = append(*seen, "<nil>")
		} else {
			*seen = append(*seen, *cursor)
		}
		if i >= len(pages) {
			return Page[int]{}, fmt.Errorf("fetch past last page")
		}
		pg := pages[i]
		i++
		return pg, nil
	}
}

func TestForEachPageCursorChain(t *testing.T) {
	pages := []Page[int]{
		{Items: []int{1, 2}, HasNext: true, EndCursor: "a"},
		{Items: []int{3}, HasNext: true, EndCursor: "b"},
		{Items: []int{4, 5}},
	}
	var seen []string
	var got []int
	err := ForEachPage(context.Background(), 0, pagedFetch(pages, &seen), func(items []int) error {
		got = append(got, items...)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %v", got)
	}
	want := []string{"<nil>", "a", "b"}
	if len(seen) != len(want) {
		t.Fatalf("cursor chain: %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cursor %d: expected %q got %q", i, want[i], seen[i])
		}
	}
}

func TestForEachPageMaxPages(t *testing.T) {
	pages := []Page[int]{
		{Items: []int{1}, HasNext: true, EndCursor: "a"},
		{Items: []int{2}, HasNext: true, EndCursor: "b"},
		{Items: []int{3}, HasNext: true, EndCursor: "c"},
	}
	var seen []string
	var count int
	err := ForEachPage(context.Background(), 2, pagedFetch(pages, &seen), func(items []int) error {
		count += len(items)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected walk capped at 2 pages, got %d items", count)
	}
}

func TestForEachPageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEachPage(ctx, 0, func(context.Context, *string) (Page[int], error) {
		t.Fatalf("fetch should not run after cancel")
		return Page[int]{}, nil
	}, nil)
	if err == nil {
		t.Fatalf("expected context error")
	}
}

func TestCollectPages(t *testing.T) {
	pages := []Page[int]{
		{Items: []int{1, 2}, HasNext: true, EndCursor: "a"},
		{Items: []int{3}},
	}
	var seen []string
	out, err := CollectPages(context.Background(), 0, pagedFetch(pages, &seen))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 || out[0] != 1 || out[2] != 3 {
		t.Fatalf("bad collect: %v", out)
	}
}
