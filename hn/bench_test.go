package hn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func BenchmarkService_FetchStory_CacheHit(b *testing.B) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"type":"story","title":"bench"}`))
	}))
	defer srv.Close()

	s := NewService(WithBaseURL(srv.URL))
	ctx := context.Background()
	if _, err := s.FetchStory(ctx, 1); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.FetchStory(ctx, 1)
	}
}

func BenchmarkService_FetchStory_Miss(b *testing.B) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"type":"story","title":"bench"}`))
	}))
	defer srv.Close()

	cfg := DefaultNetworkConfig()
	cfg.RateLimitPerSecond = 64
	s := NewService(WithBaseURL(srv.URL), WithNetworkConfig(cfg))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.FetchStory(ctx, i+1)
	}
}

func BenchmarkService_FetchStoriesConcurrent(b *testing.B) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"type":"story"}`))
	}))
	defer srv.Close()

	s := NewService(WithBaseURL(srv.URL))
	ids := make([]int, 30)
	for i := range ids {
		ids[i] = i + 1
	}
	ctx := context.Background()
	// Warm the cache so the benchmark measures fan-out overhead.
	_ = s.FetchStoriesConcurrent(ctx, ids)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.FetchStoriesConcurrent(ctx, ids)
	}
}

func BenchmarkListType_Parse(b *testing.B) {
	names := []string{"top", "newstories", "Ask"}
	for i := 0; i < b.N; i++ {
		if _, err := ParseListType(names[i%len(names)]); err != nil {
			b.Fatal(err)
		}
	}
}
