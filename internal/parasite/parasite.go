// Package parasite reads and rewrites GIMP's parasiterc settings store.
//
// parasiterc is a sequence of s-expression entries of the form
//
//	(parasite "name" flags "data")
//
// interleaved with comment and blank lines. GIMP rewrites the file on exit,
// so plugman edits it only while GIMP is closed. Removal keeps every byte it
// does not understand: comments, blank lines and foreign entries pass
// through verbatim.
package parasite

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gimptool/plugman/pkg/types"
)

// Entry is one parasite record.
type Entry struct {
	Name  string
	Flags int
	Data  string

	// raw is the entry text exactly as read, used for round-tripping.
	raw string
}

// node is one unit of the file: either a parasite entry or a verbatim line.
type node struct {
	entry *Entry
	line  string
}

// File is a parsed parasiterc that can be edited and written back.
type File struct {
	nodes []node
}

// ParseFile reads and parses the parasiterc at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return parsed, nil
}

// Parse reads a parasiterc from r.
func Parse(r io.Reader) (*File, error) {
	file := &File{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending []string
	var state scanState

	for scanner.Scan() {
		line := scanner.Text()

		if state.depth == 0 {
			trimmed := strings.TrimSpace(line)
			if !strings.HasPrefix(trimmed, "(parasite") {
				file.nodes = append(file.nodes, node{line: line})
				continue
			}
		}

		pending = append(pending, line)
		if err := state.scan(line); err != nil {
			return nil, err
		}
		if state.depth > 0 {
			// Entry continues on the next line (data strings may contain
			// raw newlines).
			continue
		}

		raw := strings.Join(pending, "\n")
		entry, err := parseEntry(raw)
		if err != nil {
			return nil, err
		}
		file.nodes = append(file.nodes, node{entry: entry})
		pending = nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if state.depth != 0 {
		return nil, fmt.Errorf("%w: unterminated entry", types.ErrMalformedParasiterc)
	}

	return file, nil
}

// scanState tracks parenthesis depth across lines, ignoring parentheses
// inside quoted strings. String state carries over line boundaries because
// parasite data may contain raw newlines.
type scanState struct {
	depth    int
	inString bool
	escaped  bool
}

func (s *scanState) scan(line string) error {
	for _, r := range line {
		switch {
		case s.escaped:
			s.escaped = false
		case r == '\\' && s.inString:
			s.escaped = true
		case r == '"':
			s.inString = !s.inString
		case r == '(' && !s.inString:
			s.depth++
		case r == ')' && !s.inString:
			s.depth--
			if s.depth < 0 {
				return fmt.Errorf("%w: unbalanced parentheses", types.ErrMalformedParasiterc)
			}
		}
	}
	// A trailing backslash escapes the newline itself.
	s.escaped = false
	return nil
}

// Names returns the parasite names in file order.
func (f *File) Names() []string {
	var names []string
	for _, n := range f.nodes {
		if n.entry != nil {
			names = append(names, n.entry.Name)
		}
	}
	return names
}

// Get returns the named entry.
func (f *File) Get(name string) (Entry, bool) {
	for _, n := range f.nodes {
		if n.entry != nil && n.entry.Name == name {
			return *n.entry, true
		}
	}
	return Entry{}, false
}

// Has reports whether the named entry exists.
func (f *File) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// Remove deletes the named entry. Returns ErrParasiteNotFound when no entry
// with that name exists.
func (f *File) Remove(name string) error {
	for i, n := range f.nodes {
		if n.entry != nil && n.entry.Name == name {
			f.nodes = append(f.nodes[:i], f.nodes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", types.ErrParasiteNotFound, name)
}

// WriteTo writes the file back out, preserving unedited content verbatim.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, n := range f.nodes {
		text := n.line
		if n.entry != nil {
			text = n.entry.raw
		}
		written, err := fmt.Fprintln(w, text)
		total += int64(written)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFile writes the file to path with GIMP's usual 0644 mode.
func (f *File) WriteFile(path string) error {
	var b strings.Builder
	if _, err := f.WriteTo(&b); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RemoveFromFile removes the named parasite from the parasiterc at path and
// writes the file back. A missing file is treated as ErrParasiteNotFound.
func RemoveFromFile(path, name string) error {
	f, err := ParseFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", types.ErrParasiteNotFound, name)
		}
		return err
	}
	if err := f.Remove(name); err != nil {
		return err
	}
	return f.WriteFile(path)
}

// parseEntry decodes one (parasite "name" flags "data") record.
func parseEntry(raw string) (*Entry, error) {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return nil, fmt.Errorf("%w: %q", types.ErrMalformedParasiterc, raw)
	}
	body = strings.TrimSpace(body[1 : len(body)-1])

	const keyword = "parasite"
	if !strings.HasPrefix(body, keyword) {
		return nil, fmt.Errorf("%w: %q", types.ErrMalformedParasiterc, raw)
	}
	body = strings.TrimSpace(body[len(keyword):])

	name, rest, err := readString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: entry name: %q", types.ErrMalformedParasiterc, raw)
	}

	rest = strings.TrimSpace(rest)
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: %q", types.ErrMalformedParasiterc, raw)
	}
	flags, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: flags: %q", types.ErrMalformedParasiterc, raw)
	}

	data, _, err := readString(strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: entry data: %q", types.ErrMalformedParasiterc, raw)
	}

	return &Entry{Name: name, Flags: flags, Data: data, raw: raw}, nil
}

// readString decodes a leading quoted string and returns it along with the
// remainder of the input. Recognized escapes match what GIMP writes:
// \" \\ \n \t \r; unknown escapes keep the escaped character.
func readString(s string) (string, string, error) {
	if len(s) == 0 || s[0] != '"' {
		return "", "", fmt.Errorf("expected quoted string")
	}

	var b strings.Builder
	escaped := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			switch c {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(c)
			}
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("unterminated string")
}
