package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/jonwraymond/hnfetch/hn"
)

func printList(ctx context.Context, w io.Writer, svc *hn.Service, list hn.ListType, limit int) error {
	ids, err := svc.FetchStoryIDs(ctx, list)
	if err != nil {
		return err
	}
	if limit < len(ids) {
		ids = ids[:limit]
	}

	// The batch returns completion order; print in ranking order.
	byID := make(map[int]hn.Story, len(ids))
	for _, s := range svc.FetchStoriesConcurrent(ctx, ids) {
		byID[s.ID] = s
	}

	rank := 0
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			continue
		}
		rank++
		fmt.Fprintf(w, "%2d. %s\n", rank, s.Title)
		fmt.Fprintf(w, "    %d points by %s | %d comments | id %d\n", s.Score, s.By, s.Descendants, s.ID)
		if s.URL != "" {
			fmt.Fprintf(w, "    %s\n", s.URL)
		}
	}
	if rank < len(ids) {
		fmt.Fprintf(w, "(%d of %d stories unavailable)\n", len(ids)-rank, len(ids))
	}
	return nil
}

func printThread(ctx context.Context, w io.Writer, svc *hn.Service, id, depth int) error {
	story, err := svc.FetchStory(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n%d points by %s\n", story.Title, story.Score, story.By)
	if story.URL != "" {
		fmt.Fprintln(w, story.URL)
	}

	for _, c := range svc.FetchCommentThread(ctx, story.Kids, depth) {
		if c.Deleted || c.Dead {
			continue
		}
		indent := strings.Repeat("  ", c.Depth+1)
		fmt.Fprintf(w, "%s%s:\n", indent, c.By)
		for _, line := range strings.Split(commentMarkdown(c.Text), "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "%s  %s\n", indent, line)
		}
	}
	return nil
}

// commentMarkdown renders comment HTML as markdown. Text the converter
// rejects is printed as served.
func commentMarkdown(text string) string {
	md, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(md)
}
