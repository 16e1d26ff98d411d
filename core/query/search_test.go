package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchBareWords(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{"single word hit", "foo", []string{"foo fighters", "Everlong"}, true},
		{"single word miss", "foo", []string{"nirvana", "Lithium"}, false},
		{"case insensitive", "FOO", []string{"Foo Fighters"}, true},
		{"implicit and, both present", "foo long", []string{"foo fighters", "Everlong"}, true},
		{"implicit and, one missing", "foo zzz", []string{"foo fighters", "Everlong"}, false},
		{"empty query matches all", "", []string{"anything"}, true},
		{"match spans field boundary", "fighters everlong", []string{"foo fighters", "everlong"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.query, tc.fields...))
		})
	}
}

func TestMatchOrGroups(t *testing.T) {
	assert.True(t, Match("foo|bar", "foo fighters"))
	assert.True(t, Match("foo|bar", "bar brawl"))
	assert.False(t, Match("foo|bar", "baz"))

	// A group only matches when all of its tokens do.
	assert.True(t, Match("foo fighters|queen", "foo fighters"))
	assert.False(t, Match("foo zzz|queen", "foo fighters"))
	assert.True(t, Match("foo zzz|queen", "queen II"))
}

func TestMatchQuotedPhrase(t *testing.T) {
	assert.True(t, Match(`"foo bar"`, "one foo bar two"))
	assert.False(t, Match(`"foo bar"`, "foo x bar"))
	assert.True(t, Match(`"Foo Bar"`, "a foo bar b"), "quoted match is case-insensitive")
}

func TestMatchNegation(t *testing.T) {
	assert.False(t, Match("-foo", "foo fighters"))
	assert.True(t, Match("-foo", "nirvana"))
	assert.False(t, Match("!foo", "foo fighters"))

	assert.True(t, Match(`-"foo bar"`, "foo x bar"))
	assert.False(t, Match(`-"foo bar"`, "foo bar"))

	// Negated token combined with a positive one.
	assert.True(t, Match("rock -metal", "indie rock"))
	assert.False(t, Match("rock -metal", "metal rock"))
}

func TestMatchRegex(t *testing.T) {
	assert.True(t, Match("/^a.*z$/", "abc xyz"))
	assert.False(t, Match("/^a.*z$/", "xabc xyz"))
	assert.True(t, Match("/b.b/", "Bob Dylan"), "pattern is case-insensitive")
	assert.False(t, Match("-/b.b/", "Bob Dylan"))
}

func TestMatchMalformedRegexDegradesToLiteral(t *testing.T) {
	// "(" does not compile; the token falls back to substring containment.
	assert.True(t, Match("/(/", "weird (live) take"))
	assert.False(t, Match("/(/", "studio take"))
}

func TestMatchWhitespaceOnlyQuery(t *testing.T) {
	// Split on | yields no usable groups, so nothing matches.
	assert.False(t, Match("|", "anything"))
	assert.False(t, Match(" | ", "anything"))
}
