// SPDX-License-Identifier: MPL-2.0

// Package shellutil splits command-line strings the way the Bourne shell
// would, without running a shell.
//
// Only quoting, escaping and whitespace are interpreted. Anything that needs a
// real shell to mean something (pipes, redirections, expansions, globs, command
// lists) is rejected with a MetaCharacterError naming the character.
package shellutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrMetaCharacter is the sentinel wrapped by MetaCharacterError.
var ErrMetaCharacter = errors.New("unsupported shell meta-character")

// unquotedMeta are glob and brace-expansion characters that keep their shell
// meaning inside a literal word. A leading '~' is rejected separately.
const unquotedMeta = "*?{}"

type (
	// MetaCharacterError reports a character only a real shell could interpret.
	MetaCharacterError struct {
		Char rune
	}

	// SyntaxError reports input that is not a well-formed word list, such as
	// an unterminated quote.
	SyntaxError struct {
		Input string
		Cause error
	}
)

// Error implements the error interface.
func (e *MetaCharacterError) Error() string {
	return fmt.Sprintf("cannot handle the %q character without a real shell", e.Char)
}

// Unwrap returns ErrMetaCharacter for errors.Is support.
func (e *MetaCharacterError) Unwrap() error { return ErrMetaCharacter }

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("cannot split %q: %v", e.Input, e.Cause)
}

// Unwrap returns the parser error.
func (e *SyntaxError) Unwrap() error { return e.Cause }

// Split tokenizes s using Bourne-shell quoting rules. An empty or blank
// string yields no tokens.
func Split(s string) ([]string, error) {
	file, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(s), "")
	if err != nil {
		if c, ok := firstUnquotedMeta(s); ok {
			return nil, &MetaCharacterError{Char: c}
		}
		return nil, &SyntaxError{Input: s, Cause: err}
	}

	// Newlines separate words, not commands, so the statements they end are
	// joined into one word list.
	tokens := []string{}
	for _, stmt := range file.Stmts {
		if err := checkStmt(stmt); err != nil {
			return nil, err
		}

		call, ok := stmt.Cmd.(*syntax.CallExpr)
		if !ok {
			return nil, &MetaCharacterError{Char: compoundMeta(stmt.Cmd)}
		}

		for _, as := range call.Assigns {
			tok, err := assignToken(as)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
		for _, word := range call.Args {
			tok, err := wordToken(word)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

func checkStmt(stmt *syntax.Stmt) error {
	switch {
	case stmt.Background:
		return &MetaCharacterError{Char: '&'}
	case stmt.Semicolon.IsValid():
		return &MetaCharacterError{Char: ';'}
	case stmt.Negated:
		return &MetaCharacterError{Char: '!'}
	case len(stmt.Redirs) > 0:
		op := stmt.Redirs[0].Op.String()
		return &MetaCharacterError{Char: rune(op[0])}
	case stmt.Cmd == nil:
		return &MetaCharacterError{Char: ';'}
	}
	return nil
}

// compoundMeta picks the character that introduced a non-simple command.
func compoundMeta(cmd syntax.Command) rune {
	switch c := cmd.(type) {
	case *syntax.BinaryCmd:
		return rune(c.Op.String()[0])
	case *syntax.Subshell:
		return '('
	case *syntax.Block:
		return '{'
	case *syntax.FuncDecl:
		return '('
	default:
		return ';'
	}
}

// assignToken turns a leading NAME=value word, which the parser reads as an
// assignment, back into a plain token.
func assignToken(as *syntax.Assign) (string, error) {
	if as.Array != nil || as.Index != nil {
		return "", &MetaCharacterError{Char: '('}
	}
	var sb strings.Builder
	sb.WriteString(as.Name.Value)
	if as.Append {
		sb.WriteByte('+')
	}
	if !as.Naked {
		sb.WriteByte('=')
	}
	if as.Value != nil {
		val, err := wordToken(as.Value)
		if err != nil {
			return "", err
		}
		sb.WriteString(val)
	}
	return sb.String(), nil
}

func wordToken(word *syntax.Word) (string, error) {
	var sb strings.Builder
	for i, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			lit, err := unquotedLiteral(p.Value, i == 0)
			if err != nil {
				return "", err
			}
			sb.WriteString(lit)
		case *syntax.SglQuoted:
			if p.Dollar {
				return "", &MetaCharacterError{Char: '$'}
			}
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			if p.Dollar {
				return "", &MetaCharacterError{Char: '$'}
			}
			for _, inner := range p.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					return "", &MetaCharacterError{Char: expansionMeta(inner)}
				}
				sb.WriteString(doubleQuotedLiteral(lit.Value))
			}
		default:
			return "", &MetaCharacterError{Char: expansionMeta(part)}
		}
	}
	return sb.String(), nil
}

func expansionMeta(part syntax.WordPart) rune {
	switch p := part.(type) {
	case *syntax.CmdSubst:
		if p.Backquotes {
			return '`'
		}
		return '$'
	case *syntax.ProcSubst:
		return rune(p.Op.String()[0])
	case *syntax.ExtGlob:
		return rune(p.Op.String()[0])
	case *syntax.BraceExp:
		return '{'
	default:
		return '$'
	}
}

// unquotedLiteral removes backslash escapes from raw unquoted source text and
// rejects glob and brace characters, and a tilde at the start of a word.
func unquotedLiteral(raw string, wordStart bool) (string, error) {
	if wordStart && strings.HasPrefix(raw, "~") {
		return "", &MetaCharacterError{Char: '~'}
	}
	var sb strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			i++
			if runes[i] != '\n' {
				sb.WriteRune(runes[i])
			}
			continue
		}
		if strings.ContainsRune(unquotedMeta, r) {
			return "", &MetaCharacterError{Char: r}
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// doubleQuotedLiteral applies the escapes that are special inside double
// quotes. Other backslashes are kept.
func doubleQuotedLiteral(raw string) string {
	var sb strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			switch next := runes[i+1]; next {
			case '"', '\\', '$', '`':
				sb.WriteRune(next)
				i++
				continue
			case '\n':
				i++
				continue
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// firstUnquotedMeta scans s for the first character outside quotes that a
// plain word splitter cannot handle. It backs up the parser when the input
// does not parse at all, e.g. "foo(bar)".
func firstUnquotedMeta(s string) (rune, bool) {
	const meta = "|&;<>()$`{}" + unquotedMeta
	var quote rune
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			}
		case quote == '"':
			switch r {
			case '\\':
				escaped = true
			case '"':
				quote = 0
			case '$', '`':
				return r, true
			}
		case r == '\\':
			escaped = true
		case r == '\'' || r == '"':
			quote = r
		case strings.ContainsRune(meta, r):
			return r, true
		}
	}
	return 0, false
}

// Join quotes each argument so that Split would return it unchanged and
// joins them with spaces. It is meant for showing commands to people.
func Join(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		q, err := syntax.Quote(a, syntax.LangPOSIX)
		if err != nil {
			// POSIX quoting cannot express NUL or non-printable bytes.
			q = strconv.Quote(a)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
