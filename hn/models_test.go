package hn

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestListType_Endpoint(t *testing.T) {
	tests := []struct {
		list ListType
		want string
	}{
		{ListBest, "beststories"},
		{ListTop, "topstories"},
		{ListNew, "newstories"},
		{ListAsk, "askstories"},
		{ListShow, "showstories"},
		{ListJob, "jobstories"},
	}
	for _, tt := range tests {
		if got := tt.list.Endpoint(); got != tt.want {
			t.Errorf("%v.Endpoint() = %q, want %q", tt.list, got, tt.want)
		}
	}
	if got := len(ListTypes()); got != len(tests) {
		t.Errorf("len(ListTypes()) = %d, want %d", got, len(tests))
	}
}

func TestListType_StringUnknown(t *testing.T) {
	if got := ListType(42).String(); got != "ListType(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseListType(t *testing.T) {
	tests := []struct {
		in      string
		want    ListType
		wantErr bool
	}{
		{"top", ListTop, false},
		{"topstories", ListTop, false},
		{" Show ", ListShow, false},
		{"JOBSTORIES", ListJob, false},
		{"best", ListBest, false},
		{"", 0, true},
		{"stories", 0, true},
		{"hot", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseListType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownList) {
					t.Errorf("ParseListType(%q) error = %v, want ErrUnknownList", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseListType(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestStory_DecodesAPIPayload(t *testing.T) {
	payload := `{
		"by": "dhouston", "descendants": 71, "id": 8863,
		"kids": [8952, 9224], "score": 111, "time": 1175714200,
		"title": "My YC app: Dropbox - Throw away your USB drive",
		"type": "story", "url": "http://www.getdropbox.com/u/2/screencast.html"
	}`

	var s Story
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.ID != 8863 || s.By != "dhouston" || s.Descendants != 71 || s.Score != 111 {
		t.Errorf("Story = %+v", s)
	}
	if len(s.Kids) != 2 || s.Time != 1175714200 || s.Type != "story" {
		t.Errorf("Story = %+v", s)
	}
}

func TestComment_DecodesMinimalPayload(t *testing.T) {
	var c Comment
	if err := json.Unmarshal([]byte(`{"id": 2921983, "type": "comment", "deleted": true}`), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if c.ID != 2921983 || !c.Deleted || c.Text != "" || c.Kids != nil {
		t.Errorf("Comment = %+v", c)
	}
}
