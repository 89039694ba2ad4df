package glossary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDict = `{
	"settings": {"caseSensitive": false},
	"terms": [
		{"word": "Gopher", "definition": "A burrowing rodent."},
		{"word": "tooltip", "definition": "A small floating hint.", "link": "https://example.com/tooltip"}
	]
}`

func dictServer(t *testing.T, body string, status int, hits *int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt64(hits, 1)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoaderFetchesAndIndexes(t *testing.T) {
	srv := dictServer(t, sampleDict, http.StatusOK, nil)

	l := NewLoader(srv.URL, srv.Client())
	idx, err := l.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, idx)

	e, ok := idx.Lookup("gopher")
	require.True(t, ok)
	assert.Equal(t, "A burrowing rodent.", e.Definition)

	e, ok = idx.Lookup("TOOLTIP")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/tooltip", e.Link)
}

func TestLoaderSendsNoCacheHeaders(t *testing.T) {
	var gotCC, gotPragma string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCC = r.Header.Get("Cache-Control")
		gotPragma = r.Header.Get("Pragma")
		w.Write([]byte(sampleDict))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, srv.Client())
	_, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "no-cache", gotCC)
	assert.Equal(t, "no-cache", gotPragma)
}

func TestLoaderNonSuccessStatus(t *testing.T) {
	srv := dictServer(t, "not found", http.StatusNotFound, nil)

	l := NewLoader(srv.URL, srv.Client())
	idx, err := l.Load(context.Background())
	assert.Nil(t, idx)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, http.StatusNotFound, le.Status)
}

func TestLoaderMalformedBody(t *testing.T) {
	srv := dictServer(t, "{not json", http.StatusOK, nil)

	l := NewLoader(srv.URL, srv.Client())
	_, err := l.Load(context.Background())

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.NotNil(t, le.Err)
}

func TestLoaderMemoizesSuccess(t *testing.T) {
	var hits int64
	srv := dictServer(t, sampleDict, http.StatusOK, &hits)

	l := NewLoader(srv.URL, srv.Client())
	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestLoaderMemoizesFailure(t *testing.T) {
	var hits int64
	srv := dictServer(t, "boom", http.StatusInternalServerError, &hits)

	l := NewLoader(srv.URL, srv.Client())
	_, err1 := l.Load(context.Background())
	require.Error(t, err1)
	_, err2 := l.Load(context.Background())
	require.Error(t, err2)

	// The outcome is shared; the server is never asked again.
	assert.True(t, errors.Is(err2, err1) || err1 == err2)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestLoaderConcurrentCallsShareOneFetch(t *testing.T) {
	var hits int64
	srv := dictServer(t, sampleDict, http.StatusOK, &hits)

	l := NewLoader(srv.URL, srv.Client())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx, err := l.Load(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, idx)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestLoaderToleratesOddFieldTypes(t *testing.T) {
	// caseSensitive is not a boolean and terms holds one broken record;
	// both degrade instead of failing the load.
	body := `{
		"settings": {"caseSensitive": "yes"},
		"terms": [
			{"word": "ok", "definition": "fine"},
			{"word": 42}
		]
	}`
	srv := dictServer(t, body, http.StatusOK, nil)

	l := NewLoader(srv.URL, srv.Client())
	idx, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, idx.CaseSensitive())
	assert.Equal(t, 1, idx.Len())
	_, ok := idx.Lookup("OK")
	assert.True(t, ok)
}

func TestLoaderRejectsNullBody(t *testing.T) {
	srv := dictServer(t, "null", http.StatusOK, nil)

	l := NewLoader(srv.URL, srv.Client())
	idx, err := l.Load(context.Background())
	assert.Nil(t, idx)

	var le *LoadError
	require.ErrorAs(t, err, &le)
}

func TestLoaderToleratesNonArrayTerms(t *testing.T) {
	srv := dictServer(t, `{"terms": 5}`, http.StatusOK, nil)

	l := NewLoader(srv.URL, srv.Client())
	idx, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestResolveDataURL(t *testing.T) {
	cases := []struct {
		base, name, want string
	}{
		{"https://host/app/", "glossary.json", "https://host/app/glossary.json"},
		{"https://host/app/page.html", "glossary.json", "https://host/app/glossary.json"},
		{"https://host/app/", "https://cdn/other.json", "https://cdn/other.json"},
		{"", "https://cdn/other.json", "https://cdn/other.json"},
	}
	for _, c := range cases {
		got, err := ResolveDataURL(c.base, c.name)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "base=%q name=%q", c.base, c.name)
	}
}
