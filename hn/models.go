package hn

import (
	"fmt"
	"slices"
	"strings"
)

// Story is a story, job or poll item.
type Story struct {
	ID          int    `json:"id"`
	By          string `json:"by,omitempty"`
	Descendants int    `json:"descendants,omitempty"`
	Kids        []int  `json:"kids,omitempty"`
	Score       int    `json:"score,omitempty"`
	Time        int64  `json:"time,omitempty"`
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	URL         string `json:"url,omitempty"`
	Text        string `json:"text,omitempty"`
	Dead        bool   `json:"dead,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
}

// Clone returns a copy that shares no memory with s.
func (s Story) Clone() Story {
	s.Kids = slices.Clone(s.Kids)
	return s
}

// Comment is a comment item. Text is HTML as served by the API.
type Comment struct {
	ID      int    `json:"id"`
	By      string `json:"by,omitempty"`
	Kids    []int  `json:"kids,omitempty"`
	Parent  int    `json:"parent,omitempty"`
	Text    string `json:"text,omitempty"`
	Time    int64  `json:"time,omitempty"`
	Type    string `json:"type,omitempty"`
	Dead    bool   `json:"dead,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Clone returns a copy that shares no memory with c.
func (c Comment) Clone() Comment {
	c.Kids = slices.Clone(c.Kids)
	return c
}

// ListType selects one of the published story lists.
type ListType int

const (
	ListBest ListType = iota
	ListTop
	ListNew
	ListAsk
	ListShow
	ListJob
)

var listNames = [...]string{
	ListBest: "best",
	ListTop:  "top",
	ListNew:  "new",
	ListAsk:  "ask",
	ListShow: "show",
	ListJob:  "job",
}

// ListTypes returns every list type in display order.
func ListTypes() []ListType {
	return []ListType{ListBest, ListTop, ListNew, ListAsk, ListShow, ListJob}
}

// String returns the short list name, e.g. "top".
func (l ListType) String() string {
	if l < 0 || int(l) >= len(listNames) {
		return fmt.Sprintf("ListType(%d)", int(l))
	}
	return listNames[l]
}

// Endpoint returns the API path segment, e.g. "topstories".
func (l ListType) Endpoint() string {
	return l.String() + "stories"
}

// ParseListType accepts a short name ("top") or an endpoint name
// ("topstories"), case-insensitively.
func ParseListType(s string) (ListType, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "stories")
	for i, n := range listNames {
		if n == name {
			return ListType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownList, s)
}
