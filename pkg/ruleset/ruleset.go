package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/parser"
)

// Entry is one rule as written in a definition file.
type Entry struct {
	Name string `yaml:"name"`
	Rule string `yaml:"rule"`
}

// File is the on-disk layout of a definition file.
type File struct {
	Rules []Entry `yaml:"rules"`
}

// Rule is a parsed entry.
type Rule struct {
	Index  int
	Name   string
	Parsed *parser.Result
}

// Set is a parsed definition file.
type Set struct {
	Path  string
	Rules []Rule
}

// Names returns the rule names in file order.
func (s *Set) Names() []string {
	names := make([]string, len(s.Rules))
	for i, r := range s.Rules {
		names[i] = r.Name
	}
	return names
}

// EntryError is a problem with one entry.
type EntryError struct {
	Index int
	Name  string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("rules[%d]: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("rules[%d] %q: %v", e.Index, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// LoadError collects every entry problem found in a file.
type LoadError struct {
	Path   string
	Errors []*EntryError
}

func (e *LoadError) Error() string {
	var sb strings.Builder
	source := e.Path
	if source == "" {
		source = "ruleset"
	}
	fmt.Fprintf(&sb, "%s: %d invalid rule(s):", source, len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the entry errors to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// ErrEmptyName and ErrDuplicateName are reported for entries that cannot be
// identified.
var (
	ErrEmptyName     = errors.New("rule name is required")
	ErrDuplicateName = errors.New("duplicate rule name")
)

// Load reads and parses the definition file at path. A nil parser uses the
// default limits.
func Load(path string, p *parser.Parser) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset file: %w", err)
	}

	set, err := Parse(data, p)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
			return nil, loadErr
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	set.Path = path
	return set, nil
}

// Parse parses definition file contents. Unknown keys are rejected.
func Parse(data []byte, p *parser.Parser) (*Set, error) {
	if p == nil {
		p = parser.NewParser()
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse ruleset YAML: %w", err)
	}

	set := &Set{Rules: make([]Rule, 0, len(file.Rules))}
	var problems []*EntryError
	seen := make(map[string]int, len(file.Rules))

	for i, entry := range file.Rules {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			problems = append(problems, &EntryError{Index: i, Err: ErrEmptyName})
			continue
		}
		if first, ok := seen[name]; ok {
			problems = append(problems, &EntryError{Index: i, Name: name,
				Err: fmt.Errorf("%w (first defined at rules[%d])", ErrDuplicateName, first)})
			continue
		}
		seen[name] = i

		res, err := p.ParseString(entry.Rule)
		if err != nil {
			problems = append(problems, &EntryError{Index: i, Name: name, Err: err})
			continue
		}
		set.Rules = append(set.Rules, Rule{Index: i, Name: name, Parsed: res})
	}

	if len(problems) > 0 {
		return nil, &LoadError{Errors: problems}
	}
	return set, nil
}
