package coupler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/goliatone/go-cassie/pkg/generate"
)

// Entry is one key/value pair inside a section.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Section is a named, ordered list of entries.
type Section struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Get returns the value stored under key.
func (s Section) Get(key string) (string, bool) {
	for _, entry := range s.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

func (s *Section) set(key, value string) {
	for i := range s.Entries {
		if s.Entries[i].Key == key {
			s.Entries[i].Value = value
			return
		}
	}
	s.Entries = append(s.Entries, Entry{Key: key, Value: value})
}

// Document is an ordered, sectioned configuration bound to its output path.
type Document struct {
	Path     string    `json:"path"`
	Sections []Section `json:"sections"`
}

// Section returns the named section.
func (d Document) Section(name string) (Section, bool) {
	for _, section := range d.Sections {
		if section.Name == name {
			return section, true
		}
	}
	return Section{}, false
}

// Lookup returns the value of key inside section.
func (d Document) Lookup(section, key string) (string, bool) {
	s, ok := d.Section(section)
	if !ok {
		return "", false
	}
	return s.Get(key)
}

func (d *Document) addSection(name string) *Section {
	d.Sections = append(d.Sections, Section{Name: name})
	return &d.Sections[len(d.Sections)-1]
}

// Encode writes the document as sectioned "key = value" text, quoting values
// the way ConfigObj does so the coupler reads them back unchanged.
func (d Document) Encode(w io.Writer) error {
	file := ini.Empty(ini.LoadOptions{IgnoreInlineComment: true})
	for _, section := range d.Sections {
		sec, err := file.NewSection(section.Name)
		if err != nil {
			return fmt.Errorf("coupler: section %q: %w", section.Name, err)
		}
		for _, entry := range section.Entries {
			value, err := quoteValue(entry.Value)
			if err != nil {
				return generate.Invalid(Component, section.Name+"."+entry.Key, err.Error())
			}
			if _, err := sec.NewKey(entry.Key, value); err != nil {
				return fmt.Errorf("coupler: key %s.%s: %w", section.Name, entry.Key, err)
			}
		}
	}
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("coupler: encode %s: %w", d.Path, err)
	}
	return nil
}

// Bytes returns the encoded document.
func (d Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseDocument decodes encoded text back into a Document. Section and key
// order are preserved.
func ParseDocument(data []byte) (Document, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreContinuation:      true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, data)
	if err != nil {
		return Document{}, fmt.Errorf("coupler: parse document: %w", err)
	}
	var doc Document
	for _, sec := range file.Sections() {
		keys := sec.Keys()
		if sec.Name() == ini.DefaultSection && len(keys) == 0 {
			continue
		}
		section := doc.addSection(sec.Name())
		for _, key := range keys {
			section.Entries = append(section.Entries, Entry{Key: key.Name(), Value: unquoteValue(key.Value())})
		}
	}
	return doc, nil
}

// ReadDocument loads and parses the document at path.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("coupler: read %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return Document{}, err
	}
	doc.Path = path
	return doc, nil
}

// quoteValue applies ConfigObj's quoting rules: values that are empty, carry
// surrounding whitespace or quotes, or contain a comma or '#' are wrapped in
// double quotes, or single quotes when the value holds a double quote.
func quoteValue(value string) (string, error) {
	if strings.ContainsAny(value, "\r\n") {
		return "", errors.New("must be a single line")
	}
	if !needsQuotes(value) {
		return value, nil
	}
	if strings.Contains(value, "`") {
		return "", errors.New("cannot combine a backtick with quoting")
	}
	switch {
	case !strings.Contains(value, `"`):
		return `"` + value + `"`, nil
	case !strings.Contains(value, "'"):
		return "'" + value + "'", nil
	}
	return "", errors.New("cannot be quoted: contains both quote characters")
}

func needsQuotes(value string) bool {
	if value == "" {
		return true
	}
	const edges = " \t\v\f'\""
	if strings.ContainsRune(edges, rune(value[0])) || strings.ContainsRune(edges, rune(value[len(value)-1])) {
		return true
	}
	return strings.ContainsAny(value, ",#")
}

// unquoteValue reverses quoteValue. Unquoted values end at an inline '#'
// comment, as ConfigObj reads them.
func unquoteValue(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" && (raw[0] == '"' || raw[0] == '\'') {
		if end := strings.IndexByte(raw[1:], raw[0]); end >= 0 {
			return raw[1 : end+1]
		}
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	return raw
}

// formatBool matches the spelling the Python coupler expects.
func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// formatFloat always keeps a decimal point, so 2 renders as "2.0".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
