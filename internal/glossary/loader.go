package glossary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// LoadError reports a failed dictionary fetch: either the transport
// returned a non-success status, or the body was not the expected JSON
// object.
type LoadError struct {
	URL    string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("glossary: fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("glossary: fetch %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ResolveDataURL resolves a data file name against a base URL, following
// the same-folder convention: "glossary.json" next to "https://host/app/"
// becomes "https://host/app/glossary.json". An absolute name wins.
func ResolveDataURL(base, name string) (string, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return "", fmt.Errorf("glossary: bad data file name %q: %w", name, err)
	}
	if ref.IsAbs() || base == "" {
		return ref.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("glossary: bad base URL %q: %w", base, err)
	}
	return b.ResolveReference(ref).String(), nil
}

// Loader fetches and indexes the dictionary exactly once per process.
// The first Load performs the fetch; every later or concurrent call shares
// its outcome, success or failure. There is no invalidation: the data file
// is assumed static for the session.
type Loader struct {
	url    string
	client *http.Client

	once sync.Once
	idx  *Index
	err  error
}

// NewLoader returns a loader for the given absolute dictionary URL.
// A nil client falls back to http.DefaultClient.
func NewLoader(rawurl string, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{url: rawurl, client: client}
}

// Load returns the memoized index, fetching on first use. Concurrent
// first callers block on the single in-flight fetch rather than issuing
// their own. The context of the winning caller governs the fetch.
func (l *Loader) Load(ctx context.Context) (*Index, error) {
	l.once.Do(func() {
		l.idx, l.err = l.fetch(ctx)
	})
	return l.idx, l.err
}

func (l *Loader) fetch(ctx context.Context) (*Index, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, &LoadError{URL: l.url, Err: err}
	}
	// Always revalidate; the host platform caches aggressively.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{URL: l.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{URL: l.url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{URL: l.url, Err: err}
	}

	settings, terms, err := parseDictionary(body)
	if err != nil {
		return nil, &LoadError{URL: l.url, Err: err}
	}
	return BuildIndex(settings, terms), nil
}

// dictFile defers field decoding so that a well-formed JSON object with
// oddly-typed fields degrades per field instead of failing wholesale.
type dictFile struct {
	Settings json.RawMessage `json:"settings"`
	Terms    json.RawMessage `json:"terms"`
}

func parseDictionary(body []byte) (Settings, []*Term, error) {
	// A literal null decodes into the zero struct without error, but it
	// is not the expected object.
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return Settings{}, nil, fmt.Errorf("parse dictionary: document is null")
	}
	var file dictFile
	if err := json.Unmarshal(body, &file); err != nil {
		return Settings{}, nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return parseSettings(file.Settings), parseTerms(file.Terms), nil
}

// parseSettings treats an absent or non-boolean caseSensitive as false.
func parseSettings(raw json.RawMessage) Settings {
	if len(raw) == 0 {
		return Settings{}
	}
	var shape struct {
		CaseSensitive json.RawMessage `json:"caseSensitive"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return Settings{}
	}
	var cs bool
	if err := json.Unmarshal(shape.CaseSensitive, &cs); err != nil {
		return Settings{}
	}
	return Settings{CaseSensitive: cs}
}

// parseTerms tolerates a missing or non-array terms field (empty
// dictionary) and skips records that do not decode; a bad record is a
// data problem, not a load failure.
func parseTerms(raw json.RawMessage) []*Term {
	var raws []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &raws) != nil {
		return nil
	}
	terms := make([]*Term, 0, len(raws))
	for _, r := range raws {
		var t Term
		if err := json.Unmarshal(r, &t); err != nil {
			terms = append(terms, nil)
			continue
		}
		terms = append(terms, &t)
	}
	return terms
}
