// Package placeholder substitutes angle-bracket tokens such as <model> in
// template text.
//
// Substitution is literal and happens in a single left-to-right pass: every
// token from the value set is replaced simultaneously, substituted values are
// never rescanned, and tokens outside the set are copied through untouched.
// Token names therefore never interfere with each other, whatever their
// spelling.
package placeholder

import (
	"fmt"
	"sort"
	"strings"
)

// Token renders name in its template form, e.g. Token("model") == "<model>".
func Token(name string) string {
	return "<" + name + ">"
}

// Values maps token names (without brackets) to replacement text.
type Values map[string]string

// Names returns the token names in sorted order.
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports names that cannot appear as tokens.
func (v Values) Validate() error {
	for name := range v {
		if !validName(name) {
			return fmt.Errorf("placeholder: invalid token name %q", name)
		}
	}
	return nil
}

// Replacer returns a strings.Replacer that swaps every token in v for its
// value. Values are never rescanned and other text is copied through.
func (v Values) Replacer() *strings.Replacer {
	pairs := make([]string, 0, 2*len(v))
	for _, name := range v.Names() {
		pairs = append(pairs, Token(name), v[name])
	}
	return strings.NewReplacer(pairs...)
}

// Render returns text with every known token replaced by its value.
func Render(text string, values Values) string {
	if len(values) == 0 || !strings.Contains(text, "<") {
		return text
	}
	return values.Replacer().Replace(text)
}

// Scan returns the distinct token names found in text, in order of first
// appearance.
func Scan(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for i := 0; i < len(text); i++ {
		name, _, ok := tokenAt(text, i)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Remaining returns the names from known that still appear as tokens in text.
func Remaining(text string, known []string) []string {
	if len(known) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(known))
	for _, name := range known {
		wanted[name] = struct{}{}
	}
	var out []string
	for _, name := range Scan(text) {
		if _, ok := wanted[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// tokenAt reports whether a token starts at text[i], returning its name and
// the index just past the closing bracket.
func tokenAt(text string, i int) (string, int, bool) {
	if text[i] != '<' {
		return "", 0, false
	}
	j := i + 1
	for j < len(text) && isNameByte(text[j]) {
		j++
	}
	if j == i+1 || j >= len(text) || text[j] != '>' {
		return "", 0, false
	}
	return text[i+1 : j], j + 1, true
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.':
		return true
	}
	return false
}
