// Package fuzz generates random, individually-valid Anchor lexemes for
// lexer round-trip and fuzz tests.
package fuzz

import (
	"math/rand"
	"strings"
)

// validLexemes is a pool of every lexeme class the lexer recognizes:
// keywords, punctuation, operators, identifiers, integers and strings
// (including one spanning several words, to exercise the string-scanning
// loop beyond a single token).
const validLexemes = "function;integer;boolean;string;void;val;return;print;if;while;true;false" +
	";(;);{;};;;,;=;==;+;-;*;<;>" +
	";main;foo;bar;total;count;accumulator" +
	";0;1;7;42;1000" +
	";\"\";\"x\";\"hello\";\"a longer piece of text spanning several words\""

// RandomTokens returns size space-separated lexemes drawn at random from
// the valid pool.
func RandomTokens(size int) string {
	return RandomTokensWithSep(size, " ")
}

// RandomTokensWithSep is RandomTokens with a caller-chosen separator between
// lexemes (still whitespace, so the lexer's own whitespace-skipping is what
// is being exercised, not the separator content itself).
func RandomTokensWithSep(size int, sep string) string {
	pool := strings.Split(validLexemes, ";")

	toks := make([]string, 0, size)
	for len(toks) < size {
		toks = append(toks, pool[rand.Intn(len(pool))])
	}

	return strings.Join(toks, sep)
}
