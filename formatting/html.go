package formatting

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/doctree/model"
)

// htmlPolicy keeps the inline markup RunsFromHTML understands and drops
// everything else, scripts and attributes included.
var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "s", "strike", "del", "sup", "sub", "br", "span", "p")
	p.AllowStyles("color").OnElements("span")
	return p
}()

var namedColors = map[string]string{
	"black":   "000000",
	"white":   "FFFFFF",
	"red":     "FF0000",
	"green":   "008000",
	"lime":    "00FF00",
	"blue":    "0000FF",
	"navy":    "000080",
	"yellow":  "FFFF00",
	"orange":  "FFA500",
	"purple":  "800080",
	"fuchsia": "FF00FF",
	"magenta": "FF00FF",
	"teal":    "008080",
	"aqua":    "00FFFF",
	"cyan":    "00FFFF",
	"maroon":  "800000",
	"olive":   "808000",
	"gray":    "808080",
	"grey":    "808080",
	"silver":  "C0C0C0",
}

type htmlScope struct {
	tag   atom.Atom
	apply func(f *model.RunFormatting)
}

// RunsFromHTML converts an HTML fragment into text runs. Supported markup is
// bold, italic, underline, strike-through, superscript, subscript, line
// breaks, paragraphs and span colors; other tags are dropped and their text
// kept. base is the formatting every run starts from and may be nil.
func RunsFromHTML(fragment string, base *model.RunFormatting) ([]*model.FormattedRun, error) {
	clean := htmlPolicy.Sanitize(fragment)
	z := html.NewTokenizer(strings.NewReader(clean))

	var (
		runs   []*model.FormattedRun
		scopes []htmlScope
		paras  int
	)

	current := func() *model.RunFormatting {
		f := base.Clone()
		if f == nil {
			f = &model.RunFormatting{}
		}
		f.Markup = model.Markup{}
		for _, s := range scopes {
			s.apply(f)
		}
		return f
	}
	emit := func(text string) {
		if text == "" {
			return
		}
		f := current()
		if n := len(runs); n > 0 && model.Hash(runs[n-1].Format) == model.Hash(f) {
			runs[n-1].Text += text
			return
		}
		runs = append(runs, model.NewTextRun(text, f))
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("reading html: %w", err)
			}
			return trimRuns(runs), nil

		case html.TextToken:
			emit(collapseSpace(html.UnescapeString(string(z.Raw()))))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Br:
				emit("\n")
				continue
			case atom.P:
				if paras > 0 || len(runs) > 0 {
					emit("\n")
				}
				paras++
				continue
			}
			if fn := htmlFormat(tok); fn != nil {
				scopes = append(scopes, htmlScope{tag: tok.DataAtom, apply: fn})
			}

		case html.EndTagToken:
			tok := z.Token()
			for i := len(scopes) - 1; i >= 0; i-- {
				if scopes[i].tag == tok.DataAtom {
					scopes = append(scopes[:i], scopes[i+1:]...)
					break
				}
			}
		}
	}
}

func htmlFormat(tok html.Token) func(f *model.RunFormatting) {
	switch tok.DataAtom {
	case atom.B, atom.Strong:
		return func(f *model.RunFormatting) { f.Bold = model.On }
	case atom.I, atom.Em:
		return func(f *model.RunFormatting) { f.Italic = model.On }
	case atom.U:
		return func(f *model.RunFormatting) { f.Underline = "single" }
	case atom.S, atom.Strike, atom.Del:
		return func(f *model.RunFormatting) { f.Strike = model.On }
	case atom.Sup:
		return func(f *model.RunFormatting) { f.VertAlign = "superscript" }
	case atom.Sub:
		return func(f *model.RunFormatting) { f.VertAlign = "subscript" }
	case atom.Span:
		for _, a := range tok.Attr {
			if a.Key != "style" {
				continue
			}
			if c := styleColor(a.Val); c != "" {
				return func(f *model.RunFormatting) { f.Color = c }
			}
		}
		return func(*model.RunFormatting) {}
	}
	return nil
}

// styleColor returns the color of a CSS declaration list as six hex digits.
func styleColor(style string) string {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "color") {
			continue
		}
		return parseColor(strings.TrimSpace(value))
	}
	return ""
}

func parseColor(v string) string {
	v = strings.ToLower(v)
	if c, ok := namedColors[v]; ok {
		return c
	}
	hex, ok := strings.CutPrefix(v, "#")
	if !ok {
		return ""
	}
	for _, r := range hex {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return ""
		}
	}
	switch len(hex) {
	case 3:
		return strings.ToUpper(string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}))
	case 6:
		return strings.ToUpper(hex)
	}
	return ""
}

func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

// trimRuns drops leading and trailing blanks of the converted text.
func trimRuns(runs []*model.FormattedRun) []*model.FormattedRun {
	for len(runs) > 0 {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " ")
		if runs[0].Text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 {
		last := runs[len(runs)-1]
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			break
		}
		runs = runs[:len(runs)-1]
	}
	return runs
}
