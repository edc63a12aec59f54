package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cache *Cache) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	client, err := New(Options{
		BaseURL: srv.URL + "/api/",
		Cache:   cache,
		Metrics: NewMetrics(prometheus.NewRegistry()),
		Logger:  nil,
	})
	require.NoError(t, err)
	return client, &calls
}

func TestGetDecodesAndValidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mpcVoting/members/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"A. Member"},{"id":2,"name":"B. Member"}]`))
	}, nil)

	var members []member
	require.NoError(t, client.Get(context.Background(), "/mpcVoting/members/", &members))
	assert.Len(t, members, 2)
	assert.Equal(t, "B. Member", members[1].Name)
}

func TestGetSchemaViolation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":""}]`))
	}, nil)

	var members []member
	err := client.Get(context.Background(), "/mpcVoting/members/", &members)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestGetMalformedJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	}, nil)

	var m member
	err := client.Get(context.Background(), "/team/1/", &m)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestStatusErrorCarriesDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Email already registered."}`))
	}, nil)

	err := client.Post(context.Background(), "/contact/", map[string]string{"name": "x"}, nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Equal(t, "Email already registered.", Message(err, "fallback"))
}

func TestStatusErrorWithoutDetailUsesFallback(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}, nil)

	err := client.Post(context.Background(), "/downloads/", map[string]string{}, nil)
	assert.Equal(t, "Submission failed. Please try again.", Message(err, "Submission failed. Please try again."))
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	}, nil)

	var payload map[string]any
	err := client.Get(context.Background(), "/minutesAnalysis/wordcloud/1999/", &payload)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "No data is available for this selection.", ViewMessage(err))
}

func TestTransportFailure(t *testing.T) {
	client, err := New(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)

	var payload []member
	err = client.Get(context.Background(), "/mpc/decisions/", &payload)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "Unable to reach the data service. Please try again later.", ViewMessage(err))
}

func TestPostSendsJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Ada","comment_text":"Hi"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9,"name":"Ada"}`))
	}, nil)

	var created member
	err := client.Post(context.Background(), "/outreach/comments/", map[string]string{"name": "Ada", "comment_text": "Hi"}, &created)
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)
}

func TestCachedGetSkipsSecondRequest(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(rdb, time.Minute)

	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Cached"}]`))
	}, cache)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		var members []member
		require.NoError(t, client.Get(ctx, "/mpcVoting/members/", &members))
		assert.Equal(t, "Cached", members[0].Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	_, err := cache.Bump(ctx)
	require.NoError(t, err)
	var members []member
	require.NoError(t, client.Get(ctx, "/mpcVoting/members/", &members))
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(rdb, time.Minute)

	var fail atomic.Bool
	fail.Store(true)
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"Recovered"}]`))
	}, cache)

	var members []member
	err := client.Get(context.Background(), "/team/", &members)
	require.Error(t, err)

	fail.Store(false)
	require.NoError(t, client.Get(context.Background(), "/team/", &members))
	assert.Equal(t, "Recovered", members[0].Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestNewCacheDisabled(t *testing.T) {
	assert.Nil(t, NewCache(nil, time.Minute))
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	assert.Nil(t, NewCache(rdb, 0))
}

func TestEndpointLabel(t *testing.T) {
	cases := map[string]string{
		"/minutesAnalysis/wordcloud/2021/":                   "/minutesAnalysis/wordcloud",
		"/team/":                                             "/team",
		"/mpcDiscussions/member-analysis/2022/Jane%20Doe/": "/mpcDiscussions/member-analysis",
		"":                                                   "/",
	}
	for in, want := range cases {
		if got := endpointLabel(in); got != want {
			t.Fatalf("endpointLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestViewMessageFallsBackToDetail(t *testing.T) {
	err := &StatusError{Method: http.MethodGet, Path: "/x/", Status: http.StatusServiceUnavailable, Detail: "Maintenance window."}
	assert.Equal(t, "Maintenance window.", ViewMessage(err))
	assert.Equal(t, "Failed to load data. Please try again later.", ViewMessage(errors.New("boom")))
}
