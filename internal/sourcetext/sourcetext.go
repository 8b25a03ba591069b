// Package sourcetext provides the small lexical helpers shared by the unit parser
// and the test case extractor: comment masking that keeps byte offsets stable,
// string literal reading and brace matching.
//
// It understands C-family comments (// and /* */) and single, double and
// backtick quoted strings. That is enough for Solidity sources and TypeScript
// test files; it is not a tokenizer for either language.
package sourcetext

import "strings"

// Mask returns a copy of text where comment bodies are replaced by spaces.
// Newlines are kept so line structure and byte offsets are unchanged.
// String literals are left intact.
func Mask(text string) string {
	out := []byte(text)
	n := len(out)
	for i := 0; i < n; {
		c := out[i]
		switch {
		case c == '/' && i+1 < n && out[i+1] == '/':
			for i < n && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		case c == '/' && i+1 < n && out[i+1] == '*':
			closeAt := strings.Index(text[i+2:], "*/")
			if closeAt < 0 {
				// unterminated: drop the opener only so later declarations stay visible
				out[i], out[i+1] = ' ', ' '
				i += 2
				continue
			}
			end := i + 2 + closeAt + 2
			for ; i < end; i++ {
				if out[i] != '\n' {
					out[i] = ' '
				}
			}
		case c == '"' || c == '\'' || c == '`':
			end := skipString(text, i)
			i = end
		default:
			i++
		}
	}
	return string(out)
}

// skipString returns the offset just past the string literal starting at start.
// An unterminated literal runs to the end of the line (or text for backticks).
func skipString(text string, start int) int {
	quote := text[start]
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			if quote != '`' {
				return i
			}
		}
	}
	return len(text)
}

// ReadString reads the string literal that starts at offset start. It returns the
// literal body exactly as written (escape sequences are not interpreted) and the
// offset just past the closing quote. ok is false when text[start] is not a quote
// or the literal is unterminated.
func ReadString(text string, start int) (body string, end int, ok bool) {
	if start >= len(text) {
		return "", start, false
	}
	quote := text[start]
	if quote != '"' && quote != '\'' && quote != '`' {
		return "", start, false
	}
	end = skipString(text, start)
	if end <= start+1 || text[end-1] != quote || end-1 == start {
		return "", end, false
	}
	// an escaped quote right before the end means the literal never closed
	if escapedAt(text, start+1, end-1) {
		return "", end, false
	}
	return text[start+1 : end-1], end, true
}

// escapedAt reports whether the byte at pos is preceded by an odd run of backslashes
// that starts at or after from.
func escapedAt(text string, from, pos int) bool {
	count := 0
	for i := pos - 1; i >= from && text[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}

// MatchBrace returns the offset of the '}' closing the '{' at open in masked text,
// skipping braces inside string literals. It returns -1 if the block is never closed.
func MatchBrace(masked string, open int) int {
	if open < 0 || open >= len(masked) || masked[open] != '{' {
		return -1
	}
	depth := 0
	for i := open; i < len(masked); i++ {
		switch masked[i] {
		case '"', '\'', '`':
			i = skipString(masked, i) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// DocBlockBefore returns the /** ... */ block that ends immediately before pos,
// separated from it only by whitespace. The returned string includes the
// delimiters. ok is false when there is no such block.
func DocBlockBefore(text string, pos int) (block string, ok bool) {
	if pos > len(text) {
		pos = len(text)
	}
	i := pos
	for i > 0 && isSpace(text[i-1]) {
		i--
	}
	if i < 2 || text[i-2:i] != "*/" {
		return "", false
	}
	end := i
	open := blockCommentEndingAt(text, end)
	if open < 0 {
		return "", false
	}
	// "/**/" is an empty plain comment, not a doc block
	if open+2 >= end-2 || text[open+2] != '*' {
		return "", false
	}
	return text[open:end], true
}

// blockCommentEndingAt scans text from the start and returns the offset of the
// block comment that closes exactly at end, or -1. A "/*" inside a comment or a
// string literal never opens a block.
func blockCommentEndingAt(text string, end int) int {
	n := len(text)
	for i := 0; i < end; {
		c := text[i]
		switch {
		case c == '/' && i+1 < n && text[i+1] == '/':
			nl := strings.IndexByte(text[i:], '\n')
			if nl < 0 {
				return -1
			}
			i += nl
		case c == '/' && i+1 < n && text[i+1] == '*':
			closeAt := strings.Index(text[i+2:], "*/")
			if closeAt < 0 {
				return -1
			}
			blockEnd := i + 2 + closeAt + 2
			if blockEnd == end {
				return i
			}
			i = blockEnd
		case c == '"' || c == '\'' || c == '`':
			i = skipString(text, i)
		default:
			i++
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
