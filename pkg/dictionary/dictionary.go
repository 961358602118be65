// Package dictionary holds the connector-word lexicons used when
// normalizing person names. Connectors are the short prepositions and
// articles ("de", "da", "dos") that appear between given names and
// surnames and carry no identity signal of their own.
package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultLanguage is the lexicon used when none is configured.
const DefaultLanguage = "pt"

// Lexicon is the connector-word list for one language.
type Lexicon struct {
	Language   string   `json:"language"`
	Connectors []string `json:"connectors"`
}

var builtin = map[string][]string{
	"pt": {"de", "da", "do", "das", "dos"},
	"es": {"de", "del", "la", "las", "los", "y"},
	"it": {"di", "da", "del", "della", "dei", "degli"},
	"fr": {"de", "du", "des", "la", "le"},
	"en": {"of", "the"},
}

// Builtin returns the built-in lexicon for lang.
func Builtin(lang string) (Lexicon, bool) {
	words, ok := builtin[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return Lexicon{}, false
	}
	out := make([]string, len(words))
	copy(out, words)
	return Lexicon{Language: strings.ToLower(lang), Connectors: out}, true
}

// Languages lists the built-in lexicon languages in sorted order.
func Languages() []string {
	langs := make([]string, 0, len(builtin))
	for l := range builtin {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Words returns the connectors lowercased, trimmed and without blanks or repeats.
func (l Lexicon) Words() []string {
	seen := make(map[string]struct{}, len(l.Connectors))
	out := make([]string, 0, len(l.Connectors))
	for _, w := range l.Connectors {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// LoadLexicons reads a JSON file holding either {"lexicons": [...]} or a bare array of lexicons.
func LoadLexicons(path string) ([]Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var wrapped struct {
		Lexicons []Lexicon `json:"lexicons"`
	}
	dec := json.NewDecoder(f)
	if err := dec.Decode(&wrapped); err == nil && len(wrapped.Lexicons) > 0 {
		return wrapped.Lexicons, nil
	}

	// Reset and try as array [...]
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	var lexicons []Lexicon
	dec = json.NewDecoder(f)
	if err := dec.Decode(&lexicons); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file as object or array: %w", err)
	}
	return lexicons, nil
}
