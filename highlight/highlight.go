// Package highlight turns buffer content into per-line styled spans using
// chroma lexers, for the demo frontend.
package highlight

import (
	"crypto/sha256"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gdamore/tcell/v2"

	"textnav/config"
)

// Span is a run of characters sharing one style within a line.
type Span struct {
	Text  string
	Style tcell.Style
}

type StyledLine struct {
	Spans []Span
}

type Highlighter struct {
	lang      string
	theme     *config.ColorScheme
	cacheKey  [32]byte
	cacheData []StyledLine
}

// New builds a highlighter for the language matching filename; an empty or
// unknown filename falls back to plain text. A nil theme means dark.
func New(filename string, theme *config.ColorScheme) *Highlighter {
	lang := ""
	if lexer := lexers.Match(filename); lexer != nil {
		if cfg := lexer.Config(); cfg != nil {
			lang = cfg.Name
		}
	}
	if theme == nil {
		theme = config.Themes["dark"]
	}
	return &Highlighter{lang: lang, theme: theme}
}

func (h *Highlighter) Language() string {
	if h.lang == "" {
		return "Plain Text"
	}
	return h.lang
}

// Highlight tokenizes code and splits the result into one StyledLine per
// logical line. Delimiters are not part of the spans. Results are cached on
// the content hash, so repeated renders of an unchanged buffer are free.
func (h *Highlighter) Highlight(code string) []StyledLine {
	key := sha256.Sum256([]byte(code))
	if h.cacheData != nil && key == h.cacheKey {
		return h.cacheData
	}

	// Normalize delimiters for tokenizing only; line counts stay aligned
	// because every delimiter form maps to one line break.
	normalized := strings.ReplaceAll(code, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lexer := lexers.Get(h.lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	lineCount := strings.Count(normalized, "\n") + 1
	styled := make([]StyledLine, lineCount)

	iter, err := lexer.Tokenise(nil, normalized)
	if err != nil {
		for i, line := range strings.Split(normalized, "\n") {
			styled[i] = StyledLine{Spans: []Span{{Text: line, Style: tcell.StyleDefault}}}
		}
		return styled
	}

	current := 0
	for _, tok := range iter.Tokens() {
		style := h.tokenStyle(tok.Type)
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				current++
			}
			if current >= lineCount {
				break
			}
			if part != "" {
				styled[current].Spans = append(styled[current].Spans, Span{Text: part, Style: style})
			}
		}
	}

	h.cacheKey = key
	h.cacheData = styled
	return styled
}

func (h *Highlighter) tokenStyle(t chroma.TokenType) tcell.Style {
	base := tcell.StyleDefault

	switch {
	case t.InCategory(chroma.Keyword):
		return base.Foreground(h.theme.Keyword).Bold(true)
	case t.InSubCategory(chroma.LiteralString):
		return base.Foreground(h.theme.String)
	case t.InCategory(chroma.Comment):
		return base.Foreground(h.theme.Comment).Italic(true)
	case t.InSubCategory(chroma.LiteralNumber):
		return base.Foreground(h.theme.Number)
	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		return base.Foreground(h.theme.Function)
	case t == chroma.NameClass || t == chroma.NameException || t == chroma.NameDecorator:
		return base.Foreground(h.theme.Type)
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		return base.Foreground(h.theme.Builtin)
	default:
		return base.Foreground(h.theme.Text)
	}
}
