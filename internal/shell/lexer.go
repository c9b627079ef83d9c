package shell

import "strings"

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenPipe
	tokenRedirect
	tokenAppend
)

type token struct {
	kind tokenKind
	text string
}

// lex tokenizes a line, respecting single and double quotes (whitespace
// splitting suppressed while quoted) and backslash escaping (next character
// taken literally; inside single quotes backslash is literal). Pipe and
// redirect operators only count when unquoted and unescaped.
func lex(line string) ([]token, error) {
	var (
		tokens   []token
		word     strings.Builder
		started  bool
		escaped  bool
		inSingle bool
		inDouble bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, token{kind: tokenWord, text: word.String()})
			word.Reset()
			started = false
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if escaped {
			word.WriteRune(ch)
			started = true
			escaped = false
			continue
		}

		switch {
		case ch == '\\' && !inSingle:
			escaped = true
			started = true
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			started = true
		case ch == '"' && !inSingle:
			inDouble = !inDouble
			started = true
		case inSingle || inDouble:
			word.WriteRune(ch)
		case ch == ' ' || ch == '\t':
			flush()
		case ch == '|':
			flush()
			tokens = append(tokens, token{kind: tokenPipe, text: "|"})
		case ch == '>':
			flush()
			if i+1 < len(runes) && runes[i+1] == '>' {
				tokens = append(tokens, token{kind: tokenAppend, text: ">>"})
				i++
			} else {
				tokens = append(tokens, token{kind: tokenRedirect, text: ">"})
			}
		default:
			word.WriteRune(ch)
			started = true
		}
	}

	if inSingle || inDouble {
		return nil, parseErrorf("unterminated quote")
	}
	if escaped {
		return nil, parseErrorf("dangling escape at end of line")
	}
	flush()

	return tokens, nil
}
