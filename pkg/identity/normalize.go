package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/japaniel/sigdedup/pkg/dictionary"
)

// Normalizer cleans person-name strings. It is safe for concurrent use:
// the x/text casers and transformers it needs are built per call.
type Normalizer struct {
	tag        language.Tag
	connectors map[string]struct{}
	foldAccent bool
}

// NormalizerOptions configures a Normalizer.
type NormalizerOptions struct {
	// Language selects the casing rules and the default connector lexicon.
	Language string
	// Connectors overrides the lexicon connectors when non-nil.
	Connectors []string
	// FoldAccents strips combining marks after lowercasing ("João" -> "joao").
	FoldAccents bool
	// Lexicons resolves Language when Connectors is nil. nil uses the built-ins.
	Lexicons *dictionary.Index
}

// NewNormalizer builds a Normalizer. An empty or unknown language falls back
// to the Portuguese lexicon.
func NewNormalizer(opts NormalizerOptions) *Normalizer {
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = dictionary.DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Portuguese
	}
	base, _ := tag.Base()

	words := opts.Connectors
	if words == nil {
		idx := opts.Lexicons
		if idx == nil {
			idx = dictionary.NewIndex(nil)
		}
		var ok bool
		if words, ok = idx.Lookup(base.String()); !ok {
			words, _ = idx.Lookup(dictionary.DefaultLanguage)
		}
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range (dictionary.Lexicon{Connectors: words}).Words() {
		set[w] = struct{}{}
	}
	return &Normalizer{tag: tag, connectors: set, foldAccent: opts.FoldAccents}
}

// DefaultNormalizer returns the Portuguese normalizer without accent folding.
func DefaultNormalizer() *Normalizer {
	return NewNormalizer(NormalizerOptions{})
}

// Normalize lowercases name, removes standalone connector words, collapses
// whitespace runs to one space and trims. It is idempotent.
func (n *Normalizer) Normalize(name string) string {
	if name == "" {
		return ""
	}
	s := cases.Lower(n.tag).String(name)
	if n.foldAccent {
		fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(fold, s); err == nil {
			s = folded
		}
	}
	s = n.dropConnectors(s)
	return strings.Join(strings.Fields(s), " ")
}

// dropConnectors removes runs of word characters that are connectors. Only
// whole words are removed: the surrounding separators are kept, so "da" in
// "adair" or "maria-da-silva" keeps its neighbours intact.
func (n *Normalizer) dropConnectors(s string) string {
	if len(n.connectors) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	start := -1
	flush := func(end int) {
		word := s[start:end]
		if _, ok := n.connectors[word]; !ok {
			b.WriteString(word)
		}
		start = -1
	}
	for i, r := range s {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i)
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		flush(len(s))
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
