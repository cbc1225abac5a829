package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Recent Commits to MuddySwamp:master</title>
  <updated>2024-03-02T10:00:00Z</updated>
  <entry>
    <title>Fix the swamp</title>
    <link rel="alternate" type="text/html" href="https://github.com/ufosc/MuddySwamp/commit/abc"/>
    <updated>2024-03-02T10:00:00Z</updated>
    <author><name>shrek</name></author>
    <content type="html">Fixed</content>
  </entry>
  <entry>
    <title>Add donkey</title>
    <link rel="alternate" type="text/html" href="https://github.com/ufosc/MuddySwamp/commit/def"/>
    <published>2024-03-01T09:30:00+02:00</published>
    <updated>2024-03-01T12:00:00Z</updated>
    <author><name>fiona</name></author>
  </entry>
</feed>`

func TestFeedSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.UserAgent())
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomFeed))
	}))
	defer srv.Close()

	items, err := NewFeedSource(5*time.Second).Fetch(context.Background(), "muddyswamp", srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Fix the swamp", items[0].Title)
	assert.Equal(t, "https://github.com/ufosc/MuddySwamp/commit/abc", items[0].Link)
	assert.Equal(t, "shrek", items[0].Author)
	assert.Equal(t, "muddyswamp", items[0].SourceName)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), items[0].Date)

	assert.Equal(t, "fiona", items[1].Author)
	assert.Equal(t, time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC), items[1].Date)
}

func TestFeedSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(atomFeed))
	}))
	defer srv.Close()

	src := NewFeedSource(5*time.Second).WithRetries(3, time.Millisecond)

	items, err := src.Fetch(context.Background(), "muddyswamp", srv.URL)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFeedSource_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewFeedSource(5*time.Second).WithRetries(3, time.Millisecond)

	_, err := src.Fetch(context.Background(), "muddyswamp", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), srv.URL)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFeedSource_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	src := NewFeedSource(5*time.Second).WithRetries(5, time.Hour)

	done := make(chan error, 1)
	go func() {
		_, err := src.Fetch(ctx, "muddyswamp", srv.URL)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("fetch did not stop after cancel")
	}
}
