package database

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pitch-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedScore struct {
	Total int      `json:"total"`
	Flags []string `json:"flags"`
}

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisClient_JSONRoundTrip(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	var got cachedScore
	assert.ErrorIs(t, c.GetJSON(ctx, "pitch:score:v1:abc", &got), ErrCacheMiss)

	require.NoError(t, c.SetJSON(ctx, "pitch:score:v1:abc", cachedScore{Total: 82, Flags: []string{"Data privacy risk"}}, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("pitch:score:v1:abc"))

	require.NoError(t, c.GetJSON(ctx, "pitch:score:v1:abc", &got))
	assert.Equal(t, 82, got.Total)
	assert.Equal(t, []string{"Data privacy risk"}, got.Flags)

	mr.FastForward(2 * time.Hour)
	assert.ErrorIs(t, c.GetJSON(ctx, "pitch:score:v1:abc", &got), ErrCacheMiss)
}

func TestRedisClient_CorruptValueIsAMiss(t *testing.T) {
	c, mr := newTestRedis(t)
	require.NoError(t, mr.Set("pitch:score:v1:bad", "{not json"))

	var got cachedScore
	assert.ErrorIs(t, c.GetJSON(context.Background(), "pitch:score:v1:bad", &got), ErrCacheMiss)
	assert.False(t, mr.Exists("pitch:score:v1:bad"))
}

func TestRedisClient_ServerError(t *testing.T) {
	c, mr := newTestRedis(t)
	mr.SetError("ERR server unavailable")

	var got cachedScore
	err := c.GetJSON(context.Background(), "k", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	assert.Error(t, c.Ping(context.Background()))
}

func TestNewRedis_URL(t *testing.T) {
	c, err := NewRedis(config.RedisConfig{Address: "redis://:secret@cache.internal:6380/3", Password: "ignored", DB: 1})
	require.NoError(t, err)
	defer c.Close()

	opts := c.GetClient().Options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)

	c, err = NewRedis(config.RedisConfig{Address: "localhost:6379", Password: "pw", DB: 2})
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "pw", c.GetClient().Options().Password)
	assert.Equal(t, 2, c.GetClient().Options().DB)

	_, err = NewRedis(config.RedisConfig{Address: "http://not-redis"})
	assert.Error(t, err)
}

func TestPostgresClient_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	c := &PostgresClient{DB: db}

	mock.ExpectExec(PitchSchema).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	require.NoError(t, c.EnsureSchema(context.Background()))
	require.NoError(t, c.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_EnsureSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(PitchSchema).WillReturnError(io.ErrUnexpectedEOF)

	err = (&PostgresClient{DB: db}).EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply pitch schema")
}

// fakeElasticsearch answers like a v8 node; the client refuses responses
// without the product header.
func fakeElasticsearch(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestElasticsearchClient_EnsureIndex(t *testing.T) {
	var created map[string]interface{}
	es := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/pitch-submissions":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/pitch-submissions":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	require.NoError(t, (&ElasticsearchClient{Client: es}).EnsureIndex(context.Background(), "pitch-submissions"))
	require.NotNil(t, created)
	assert.Contains(t, created, "mappings")
}

func TestElasticsearchClient_EnsureIndexExisting(t *testing.T) {
	es := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, (&ElasticsearchClient{Client: es}).EnsureIndex(context.Background(), "pitch-submissions"))
}

func TestElasticsearchClient_EnsureIndexRace(t *testing.T) {
	es := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception"},"status":400}`))
	})
	assert.NoError(t, (&ElasticsearchClient{Client: es}).EnsureIndex(context.Background(), "pitch-submissions"))
}

func TestIndexDocument(t *testing.T) {
	var body map[string]interface{}
	es := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/pitch-submissions/_doc/sub-1", r.URL.Path)
		assert.Equal(t, "wait_for", r.URL.Query().Get("refresh"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := IndexDocument(context.Background(), es, "pitch-submissions", "sub-1", map[string]interface{}{"scoreTotal": 82})
	require.NoError(t, err)
	assert.Equal(t, float64(82), body["scoreTotal"])
}

func TestIndexDocument_ErrorStatus(t *testing.T) {
	es := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	})

	err := IndexDocument(context.Background(), es, "pitch-submissions", "sub-1", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
