// Package match provides the text-normalization and fuzzy-similarity
// primitives used to resolve free-text business descriptions against
// directory and local-pack records.
package match

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// entitySuffixes strips common legal suffixes before comparing names.
var entitySuffixes = regexp.MustCompile(
	`(?i)\s*,?\s*(LLC|L\.?L\.?C\.?|INC\.?|INCORPORATED|CORP\.?|CORPORATION|` +
		`CO\.?|COMPANY|LTD\.?|LIMITED|L\.?P\.?|LLP|L\.?L\.?P\.?|` +
		`PLLC|P\.?L\.?L\.?C\.?|P\.?C\.?|DBA|D/B/A)\s*\.?\s*$`)

// NormalizeName lowercases a business name, strips legal suffixes and
// punctuation, and collapses whitespace.
func NormalizeName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	n = entitySuffixes.ReplaceAllString(n, "")
	n = strings.NewReplacer(
		",", "",
		".", "",
		"'", "",
		"\"", "",
		"&", " and ",
		"-", " ",
	).Replace(n)
	n = multiSpaceRe.ReplaceAllString(n, " ")
	return strings.ToLower(strings.TrimSpace(n))
}

// TokenSetRatio computes a token-set fuzzy similarity between two strings on
// a 0-100 scale. Both inputs are normalized, tokenized, and compared as
// sorted intersection/difference joins, so the score is robust to word
// reordering and partial overlap. 100 means one token set contains the other.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(NormalizeName(a))
	tb := tokenSet(NormalizeName(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter, diffA, diffB []string
	for t := range ta {
		if tb[t] {
			inter = append(inter, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	for t := range tb {
		if !ta[t] {
			diffB = append(diffB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	base := strings.Join(inter, " ")
	joinedA := joinNonEmpty(base, strings.Join(diffA, " "))
	joinedB := joinNonEmpty(base, strings.Join(diffB, " "))

	best := similarity(base, joinedA)
	if s := similarity(base, joinedB); s > best {
		best = s
	}
	if s := similarity(joinedA, joinedB); s > best {
		best = s
	}
	return best
}

// AddressMatch reports whether two addresses refer to the same place: one
// contains the other, or their token sets overlap on at least half of the
// shorter set.
func AddressMatch(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return true
	}
	ta := tokenSet(la)
	tb := tokenSet(lb)
	short := len(ta)
	if len(tb) < short {
		short = len(tb)
	}
	if short == 0 {
		return false
	}
	overlap := 0
	for t := range ta {
		if tb[t] {
			overlap++
		}
	}
	return overlap*2 >= short
}

// RegistrableDomain reduces a URL to its bare domain: scheme, "www." prefix,
// path, and port are stripped. Returns "" if the URL cannot be parsed.
func RegistrableDomain(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return strings.TrimSuffix(host, ".")
}

// DomainsEqual reports whether two URLs share the same registrable domain.
func DomainsEqual(a, b string) bool {
	da := RegistrableDomain(a)
	return da != "" && da == RegistrableDomain(b)
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?()[]{}\"'")
		if f != "" {
			set[f] = true
		}
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

// similarity returns a 0-100 Levenshtein similarity between two strings.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return int(levenshtein.Similarity(a, b, nil)*100 + 0.5)
}
