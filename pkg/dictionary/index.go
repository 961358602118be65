package dictionary

import (
	"fmt"
	"strings"
)

// Index resolves a language to its connector words. Lexicons loaded from a
// file replace the built-in list for the same language.
type Index struct {
	lexicons map[string]Lexicon
}

// NewIndex builds an index over the built-in lexicons plus the provided ones.
func NewIndex(extra []Lexicon) *Index {
	idx := &Index{lexicons: make(map[string]Lexicon, len(builtin)+len(extra))}
	for _, lang := range Languages() {
		lex, _ := Builtin(lang)
		idx.lexicons[lang] = lex
	}
	for _, lex := range extra {
		lang := strings.ToLower(strings.TrimSpace(lex.Language))
		if lang == "" {
			continue
		}
		lex.Language = lang
		idx.lexicons[lang] = lex
	}
	return idx
}

// NewIndexFromFile loads lexicons from path. An empty path yields the built-in index.
func NewIndexFromFile(path string) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return NewIndex(nil), nil
	}
	lexicons, err := LoadLexicons(path)
	if err != nil {
		return nil, fmt.Errorf("load lexicons %s: %w", path, err)
	}
	return NewIndex(lexicons), nil
}

// Lookup returns the connector words for lang.
func (idx *Index) Lookup(lang string) ([]string, bool) {
	lex, ok := idx.lexicons[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return nil, false
	}
	return lex.Words(), true
}
