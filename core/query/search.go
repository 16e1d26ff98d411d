package query

import (
	"regexp"
	"strings"
)

// tokenPattern splits a search group into tokens: an optional ! or -
// negation prefix followed by a quoted phrase, a slash-delimited pattern, or
// a bare word.
var tokenPattern = regexp.MustCompile(`([!\-]?)(?:"([^"]*)"|/([^/]*)/(i?)|(\S+))`)

type tokenKind int

const (
	tokenContains tokenKind = iota
	tokenRegex
)

type searchToken struct {
	negate  bool
	kind    tokenKind
	literal string
	pattern *regexp.Regexp
}

// Match evaluates the smart-search grammar against the concatenation of the
// given fields. The query is split on | into OR-groups; within a group every
// token must hold (implicit AND). "..." requires exact substring containment,
// /.../ is a case-insensitive regular expression that degrades to a literal
// substring when it does not compile, and - or ! negates any token. An empty
// query matches everything.
func Match(searchQuery string, fields ...string) bool {
	if searchQuery == "" {
		return true
	}

	lowered := make([]string, len(fields))
	for i, f := range fields {
		lowered[i] = strings.ToLower(f)
	}
	text := strings.Join(lowered, " ")

	matched := false
	groups := 0
	for _, group := range strings.Split(searchQuery, "|") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		groups++
		if groupMatches(group, text) {
			matched = true
			break
		}
	}
	if groups == 0 {
		return false
	}
	return matched
}

func groupMatches(group, text string) bool {
	for _, tok := range tokenize(group) {
		hit := false
		switch tok.kind {
		case tokenRegex:
			hit = tok.pattern.MatchString(text)
		default:
			hit = strings.Contains(text, tok.literal)
		}
		if hit == tok.negate {
			return false
		}
	}
	return true
}

func tokenize(group string) []searchToken {
	var tokens []searchToken
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(group, -1) {
		// Submatch indexes: pair k is [m[2k], m[2k+1]], -1 when the group
		// did not participate in the match.
		sub := func(k int) (string, bool) {
			if m[2*k] < 0 {
				return "", false
			}
			return group[m[2*k]:m[2*k+1]], true
		}

		prefix, _ := sub(1)
		tok := searchToken{negate: prefix == "-" || prefix == "!"}

		if quoted, ok := sub(2); ok {
			tok.kind = tokenContains
			tok.literal = strings.ToLower(quoted)
		} else if pattern, ok := sub(3); ok {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				// Malformed pattern degrades to a literal substring match.
				tok.kind = tokenContains
				tok.literal = strings.ToLower(pattern)
			} else {
				tok.kind = tokenRegex
				tok.pattern = re
			}
		} else {
			word, _ := sub(5)
			tok.kind = tokenContains
			tok.literal = strings.ToLower(word)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
