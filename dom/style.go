package dom

import (
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
	"golang.org/x/net/html"
)

// parseInlineStyle maps the declarations of a style attribute to their
// values, keyed by lower-cased property name. Later declarations win. A
// malformed declaration ends parsing; the ones before it are kept.
func parseInlineStyle(attr string) map[string]string {
	// The parser only finishes a declaration at ';' or '}'.
	attr = strings.TrimSpace(attr)
	if !strings.HasSuffix(attr, ";") {
		attr += ";"
	}

	decls := make(map[string]string)
	parsed, _ := parser.ParseDeclarations(attr)
	for _, d := range parsed {
		prop := strings.ToLower(d.Property)
		if prop == "" {
			continue
		}
		decls[prop] = d.Value
	}
	return decls
}

func attrValue(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attrValue(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// styleOf returns the effective value of property for n: a runtime override
// if one was set, otherwise the inline style attribute. Must hold d.mu.
func (d *Document) styleOf(n *html.Node, property string) string {
	property = strings.ToLower(property)
	if e, ok := d.elements[n]; ok && e.overrides != nil {
		if v, set := e.overrides[property]; set {
			return v
		}
	}
	if attr, ok := attrValue(n, "style"); ok {
		return parseInlineStyle(attr)[property]
	}
	return ""
}

// pixels parses values like "120px" or "120". Anything else is zero.
func pixels(value string) int {
	value = strings.TrimSuffix(strings.TrimSpace(value), "px")
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// translateY returns the pixel offset of the first translateY() in a
// transform value, or zero.
func translateY(transform string) int {
	s := scanner.New(transform)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			return 0
		case scanner.TokenFunction:
			if strings.EqualFold(tok.Value, "translateY(") {
				return translateArgument(s)
			}
		}
	}
}

func translateArgument(s *scanner.Scanner) int {
	sign := 1
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenS:
		case scanner.TokenChar:
			if tok.Value != "-" {
				return 0
			}
			sign = -sign
		case scanner.TokenDimension:
			if !strings.HasSuffix(strings.ToLower(tok.Value), "px") {
				return 0
			}
			return sign * pixels(tok.Value)
		case scanner.TokenNumber:
			return sign * pixels(tok.Value)
		default:
			return 0
		}
	}
}
