package hn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestService_FetchStoriesConcurrent_PartialSuccess(t *testing.T) {
	api, srv := newFakeAPI(t)
	for id := 1; id <= 5; id++ {
		api.set(fmt.Sprintf("/item/%d.json", id), fmt.Sprintf(`{"id":%d,"type":"story"}`, id))
	}
	api.fail("/item/3.json", http.StatusInternalServerError)

	var (
		mu      sync.Mutex
		dropped []int
	)
	s := newTestService(srv.URL, WithItemErrorHandler(func(id int, err error) {
		mu.Lock()
		dropped = append(dropped, id)
		mu.Unlock()
	}))

	stories := s.FetchStoriesConcurrent(context.Background(), []int{1, 2, 3, 4, 5})

	got := make([]int, 0, len(stories))
	for _, st := range stories {
		got = append(got, st.ID)
	}
	slices.Sort(got)
	if want := []int{1, 2, 4, 5}; !slices.Equal(got, want) {
		t.Errorf("story ids = %v, want %v", got, want)
	}
	if !slices.Equal(dropped, []int{3}) {
		t.Errorf("dropped = %v, want [3]", dropped)
	}
}

func TestService_FetchCommentsConcurrent_DropsMissingItems(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.set("/item/10.json", `{"id":10,"type":"comment","text":"a"}`)
	api.set("/item/11.json", `{"id":11,"type":"comment","text":"b"}`)

	var notFound atomic.Int64
	s := newTestService(srv.URL, WithItemErrorHandler(func(id int, err error) {
		if errors.Is(err, ErrItemNotFound) {
			notFound.Add(1)
		}
	}))

	comments := s.FetchCommentsConcurrent(context.Background(), []int{10, 11, 12})
	if len(comments) != 2 {
		t.Errorf("len(comments) = %d, want 2", len(comments))
	}
	if notFound.Load() != 1 {
		t.Errorf("not found = %d, want 1", notFound.Load())
	}
}

func TestService_FetchStoriesConcurrent_PreCancelled(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.set("/item/1.json", `{"id":1}`)
	s := newTestService(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stories := s.FetchStoriesConcurrent(ctx, []int{1})
	if stories == nil || len(stories) != 0 {
		t.Errorf("FetchStoriesConcurrent() = %v, want empty slice", stories)
	}
	if got := api.hitCount("/item/1.json"); got != 0 {
		t.Errorf("requests = %d, want 0", got)
	}
}

func TestService_FetchStoriesConcurrent_Empty(t *testing.T) {
	s := NewService(WithBaseURL("http://hn.invalid/"))
	if got := s.FetchStoriesConcurrent(context.Background(), nil); len(got) != 0 {
		t.Errorf("FetchStoriesConcurrent(nil) = %v", got)
	}
}

func TestService_FetchStoriesConcurrent_BoundsFanOut(t *testing.T) {
	var active, peak atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		_, _ = w.Write([]byte(`{"id":1,"type":"story"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.ConcurrentRequests = 2
	cfg.RateLimitPerSecond = 10
	s := NewService(WithNetworkConfig(cfg), WithBaseURL(srv.URL))

	ids := make([]int, 8)
	for i := range ids {
		ids[i] = i + 1
	}
	stories := s.FetchStoriesConcurrent(context.Background(), ids)
	if len(stories) != len(ids) {
		t.Errorf("len(stories) = %d, want %d", len(stories), len(ids))
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestService_FetchStoriesConcurrent_PermitsBoundRequests(t *testing.T) {
	var active, peak atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		_, _ = w.Write([]byte(`{"id":1,"type":"story"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.ConcurrentRequests = 8
	cfg.RateLimitPerSecond = 2.5
	s := NewService(WithNetworkConfig(cfg), WithBaseURL(srv.URL))

	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	_ = s.FetchStoriesConcurrent(context.Background(), ids)

	if got := peak.Load(); got > 3 {
		t.Errorf("peak requests = %d, want <= ceil(2.5) = 3", got)
	}
	if got := s.Stats().Permits.MaxActive; got > 3 {
		t.Errorf("MaxActive = %d, want <= 3", got)
	}
}
