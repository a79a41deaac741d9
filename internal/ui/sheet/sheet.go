// Package sheet parses the small CSS subset the UI engine styles its nodes with: rules whose selectors are
// .class or #id (optionally comma separated) and blocks of "property: value;" declarations.
package sheet

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Rule is a single CSS rule: one selector and a set of property values (raw strings).
type Rule struct {
	Selector string            // e.g. ".panel" or "#menu"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// Parse parses content. At-rules and selectors other than .class and #id are skipped.
// A selector list "a, b { ... }" yields one rule per selector.
func Parse(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)
	var selectors []string
	var props map[string]string
	depth := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) {
				return sheet, nil
			}
			return sheet, fmt.Errorf("sheet: %w", p.Err())
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.QualifiedRuleGrammar:
			selectors = append(selectors, join(p.Values()))
		case css.BeginRulesetGrammar:
			selectors = append(selectors, join(p.Values()))
			props = make(map[string]string)
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if props != nil {
				props[strings.TrimSpace(string(data))] = join(p.Values())
			}
		case css.EndRulesetGrammar:
			if depth == 0 {
				for _, sel := range selectors {
					if valid(sel) {
						sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
					}
				}
			}
			selectors, props = nil, nil
		}
	}
}

func join(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

func valid(sel string) bool {
	return len(sel) >= 2 && (sel[0] == '.' || sel[0] == '#') && !strings.ContainsAny(sel[1:], " .#>:[")
}

// Match returns the merged properties of every rule matching class or id, later rules winning.
func (s *Stylesheet) Match(class, id string) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	for _, rule := range s.Rules {
		sel := rule.Selector
		if (sel[0] == '.' && class != "" && sel[1:] == class) || (sel[0] == '#' && id != "" && sel[1:] == id) {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

// ParseColor parses #RGB or #RRGGBB into an opaque color.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + string([]byte{s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{A: 255}, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}

// ParsePx parses a number, with optional "px" suffix, to int32. Unitless is treated as pixels.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" to int32 (0 to 100). Used for left/top percentage positioning.
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}
