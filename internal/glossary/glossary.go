// Package glossary holds the term dictionary: the raw records loaded from
// the data file and the normalized lookup index built from them.
package glossary

import "strings"

// Term is a raw dictionary record as it appears in the data file.
// Enabled is a pointer so that an absent field defaults to true.
type Term struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Enabled    *bool  `json:"enabled"`
	Image      string `json:"image"`
	Link       string `json:"link"`
}

func (t *Term) enabled() bool {
	return t.Enabled == nil || *t.Enabled
}

// Entry is an indexed term as served to the tooltip.
type Entry struct {
	Word       string
	Definition string
	Image      string
	Link       string
}

// Settings are the dictionary-wide options from the data file.
type Settings struct {
	CaseSensitive bool
}

// Normalize produces the lookup key for a raw term string: surrounding
// whitespace is trimmed, and unless the dictionary is case-sensitive the
// result is lowercased. The same rule applies to dictionary words and to
// marker attributes, so both sides always agree.
func Normalize(word string, caseSensitive bool) string {
	word = strings.TrimSpace(word)
	if !caseSensitive {
		word = strings.ToLower(word)
	}
	return word
}

// Index is the built, queryable mapping from normalized word to its entry.
// It is immutable after construction.
type Index struct {
	caseSensitive bool
	entries       map[string]Entry
}

// BuildIndex constructs the index from raw terms in order. Nil records,
// records disabled explicitly, and records whose normalized word is empty
// are skipped. When two records normalize to the same key the later one
// wins.
func BuildIndex(settings Settings, terms []*Term) *Index {
	idx := &Index{
		caseSensitive: settings.CaseSensitive,
		entries:       make(map[string]Entry, len(terms)),
	}
	for _, t := range terms {
		if t == nil || !t.enabled() {
			continue
		}
		key := Normalize(t.Word, settings.CaseSensitive)
		if key == "" {
			continue
		}
		idx.entries[key] = Entry{
			Word:       strings.TrimSpace(t.Word),
			Definition: t.Definition,
			Image:      t.Image,
			Link:       t.Link,
		}
	}
	return idx
}

// Lookup resolves a raw term string against the index, applying the same
// normalization the index was built with.
func (i *Index) Lookup(raw string) (Entry, bool) {
	e, ok := i.entries[Normalize(raw, i.caseSensitive)]
	return e, ok
}

// CaseSensitive reports the case rule the index was built with.
func (i *Index) CaseSensitive() bool {
	return i.caseSensitive
}

// Len returns the number of indexed terms.
func (i *Index) Len() int {
	return len(i.entries)
}
