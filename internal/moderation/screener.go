package moderation

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Screener checks message content against a term list before it is accepted.
// Matching is case-insensitive, ignores punctuation/whitespace noise and maps
// common leet substitutions back to their letters, so "h@te" matches "hate".
type Screener struct {
	matcher *goahocorasick.Machine
	enabled bool
}

// NewScreener builds the Aho-Corasick automaton from the given terms. An
// empty term list yields a disabled screener that flags nothing.
func NewScreener(terms []string) (*Screener, error) {
	cleaned := make([][]rune, 0, len(terms))
	for _, term := range terms {
		norm := normalizeRunes([]rune(term))
		if len(norm) > 0 {
			cleaned = append(cleaned, norm)
		}
	}
	if len(cleaned) == 0 {
		return &Screener{}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(cleaned); err != nil {
		return nil, err
	}
	return &Screener{matcher: m, enabled: true}, nil
}

// NewScreenerFromEnv builds a screener from a comma-separated term list.
func NewScreenerFromEnv(csv string) (*Screener, error) {
	var terms []string
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return NewScreener(terms)
}

// Screen returns the flagged terms found in content, normalized. A nil or
// empty result means the content is acceptable.
func (s *Screener) Screen(content string) []string {
	if !s.enabled {
		return nil
	}
	norm := normalizeRunes([]rune(content))
	if len(norm) == 0 {
		return nil
	}
	spans := s.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return nil
	}
	found := make([]string, 0, len(spans))
	for _, span := range spans {
		found = append(found, string(span.Word))
	}
	return found
}

// normalizeRunes lowercases, strips noise characters and undoes leet speak.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common leet speak characters back to letters.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters ignored during matching.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
