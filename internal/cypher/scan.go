// Package cypher provides text-level analysis of Cypher statements: splitting
// multi-statement input, inferring the output column list from a RETURN
// clause, and sanitizing model-generated query text.
//
// AGE's cypher() SQL function accepts exactly one statement and requires the
// caller to declare the result shape up front, so both operations here exist
// to bridge free-form user input onto that fixed-arity call. Everything works
// on raw text; no Cypher grammar is parsed beyond quoting, bracket nesting,
// and comments.
package cypher

import (
	"fmt"

	"cypherline/cli/internal/errors"
)

// scanner tracks quoting, comment, and bracket-nesting state while walking
// Cypher text one byte at a time. It recognizes single- and double-quoted
// string literals with backslash escapes, // line comments, /* */ block
// comments, and (), [], {} nesting.
type scanner struct {
	quote        byte // active quote character, 0 when outside a string
	escaped      bool
	lineComment  bool
	blockComment bool
	stack        []byte
	err          error
}

// closerFor maps closing brackets to their opener.
var closerFor = map[byte]byte{')': '(', ']': '[', '}': '{'}

// step consumes one byte (with one byte of lookahead) and reports whether the
// lookahead byte was consumed as well.
func (s *scanner) step(c, next byte, offset int) bool {
	if s.err != nil {
		return false
	}
	if s.escaped {
		s.escaped = false
		return false
	}
	if s.quote != 0 {
		switch c {
		case '\\':
			s.escaped = true
		case s.quote:
			s.quote = 0
		}
		return false
	}
	if s.lineComment {
		if c == '\n' {
			s.lineComment = false
		}
		return false
	}
	if s.blockComment {
		if c == '*' && next == '/' {
			s.blockComment = false
			return true
		}
		return false
	}
	switch c {
	case '\'', '"':
		s.quote = c
	case '/':
		if next == '/' {
			s.lineComment = true
			return true
		}
		if next == '*' {
			s.blockComment = true
			return true
		}
	case '(', '[', '{':
		s.stack = append(s.stack, c)
	case ')', ']', '}':
		want := closerFor[c]
		if len(s.stack) == 0 || s.stack[len(s.stack)-1] != want {
			s.err = errors.New(errors.SplitUnbalanced,
				fmt.Sprintf("unexpected %q at offset %d", c, offset))
			return false
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
	return false
}

// top reports whether the scanner is currently outside any string literal,
// comment, or bracket nesting.
func (s *scanner) top() bool {
	return s.quote == 0 && !s.lineComment && !s.blockComment && len(s.stack) == 0
}

// finish validates end-of-input state. A trailing line comment is fine; an
// open string, block comment, or bracket is not.
func (s *scanner) finish() error {
	if s.err != nil {
		return s.err
	}
	if s.quote != 0 {
		return errors.New(errors.SplitUnbalanced,
			fmt.Sprintf("unterminated %q string literal", s.quote))
	}
	if s.blockComment {
		return errors.New(errors.SplitUnbalanced, "unterminated block comment")
	}
	if len(s.stack) > 0 {
		return errors.New(errors.SplitUnbalanced,
			fmt.Sprintf("unclosed %q", s.stack[len(s.stack)-1]))
	}
	return nil
}

// scanTopLevel walks s, invoking visit for every byte that sits at top level
// (outside strings, comments, and brackets). It returns the scanner's
// end-of-input validation error, if any.
func scanTopLevel(s string, visit func(i int, c byte)) error {
	var sc scanner
	for i := 0; i < len(s); i++ {
		var next byte
		if i+1 < len(s) {
			next = s[i+1]
		}
		if sc.top() && visit != nil {
			visit(i, s[i])
		}
		if sc.step(s[i], next, i) {
			i++
		}
		if sc.err != nil {
			return sc.err
		}
	}
	return sc.finish()
}

// splitTopLevel splits s at top-level occurrences of sep. Parts are returned
// untrimmed; the caller decides what to do with whitespace and empties.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var (
		parts []string
		start int
	)
	err := scanTopLevel(s, func(i int, c byte) {
		if c == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	})
	if err != nil {
		return nil, err
	}
	return append(parts, s[start:]), nil
}
