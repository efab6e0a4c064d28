// Package lucene compiles search keys into a Lucene query string.
package lucene

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/condition"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/keys"
)

// FuzzinessAuto lets the engine pick the edit distance from the term length.
const FuzzinessAuto = "auto"

// reserved escapes the query_string operator characters. A term that needed
// escaping is quoted so the engine reads it as text.
var reserved = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `!`, `\!`, `(`, `\(`, `)`, `\)`,
	`{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`, `"`, `\"`,
	`~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`, `&`, `\&`, `|`, `\|`,
)

// Compile renders k as a Lucene query string. An empty fuzziness disables
// fuzzy markers. An empty tree yields "".
func Compile(k keys.Keys, fuzziness string) (string, error) {
	if k.IsEmpty() {
		return "", nil
	}
	return render(k, fuzzyMarker(fuzziness), false)
}

// render compiles one node. inherited carries the negation of a parent
// group that collapsed onto this node.
func render(k keys.Keys, marker string, inherited bool) (string, error) {
	negated := k.Negated() != inherited
	if k.IsTerm() {
		return renderTerm(k.Value(), marker, negated), nil
	}
	if err := checkConjunction(k); err != nil {
		return "", err
	}

	var live []keys.Keys
	for _, c := range k.Children() {
		ok, err := hasTerms(c)
		if err != nil {
			return "", err
		}
		if ok {
			live = append(live, c)
		}
	}

	switch len(live) {
	case 0:
		return "", nil
	case 1:
		// A single-child group renders as the child itself.
		return render(live[0], marker, negated)
	}

	parts := make([]string, 0, len(live))
	for _, c := range live {
		s, err := render(c, marker, false)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	s := "(" + strings.Join(parts, " "+string(k.Conjunction())+" ") + ")"
	if negated {
		return "-" + s, nil
	}
	return s, nil
}

// hasTerms reports whether k renders to a non-empty string.
func hasTerms(k keys.Keys) (bool, error) {
	if k.IsTerm() {
		return strings.TrimSpace(k.Value()) != "", nil
	}
	if err := checkConjunction(k); err != nil {
		return false, err
	}
	found := false
	for _, c := range k.Children() {
		ok, err := hasTerms(c)
		if err != nil {
			return false, err
		}
		found = found || ok
	}
	return found, nil
}

func checkConjunction(k keys.Keys) error {
	conj := k.Conjunction()
	if conj != condition.And && conj != condition.Or {
		return &domain.CompileError{Kind: domain.ErrInvalidConjunction, Conjunction: string(conj)}
	}
	return nil
}

// renderTerm escapes reserved characters and quotes multi-word or escaped
// terms. Negated terms are exact.
func renderTerm(v, marker string, negated bool) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	escaped := reserved.Replace(v)
	if escaped != v || strings.IndexFunc(v, unicode.IsSpace) >= 0 {
		v = `"` + escaped + `"`
	}
	if negated {
		return "-" + v
	}
	return v + marker
}

func fuzzyMarker(fuzziness string) string {
	f := strings.ToLower(strings.TrimSpace(fuzziness))
	if f == "" {
		return ""
	}
	if n, err := strconv.Atoi(f); err == nil {
		if n <= 0 {
			return ""
		}
		return "~" + f
	}
	return "~"
}
