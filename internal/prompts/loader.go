// Package prompts holds the embedded prompt templates for the career flows.
//
// Templates live in careers.json and use {{.Name}} placeholders. Rendering checks
// that every placeholder in a template has a value, so a renamed placeholder fails
// loudly instead of reaching the model verbatim.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

// DefaultFile is the embedded template file used by Default.
const DefaultFile = "careers.json"

// Key names one template.
type Key string

// Templates in careers.json.
const (
	CareerAssessment  Key = "career-assessment"
	CareerSuggestions Key = "career-suggestions"
	PathwaySystem     Key = "pathway-system"
	PathwayUser       Key = "pathway-user"
	ExamInfo          Key = "exam-info"
)

var placeholder = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

// Set is a parsed template file.
type Set struct {
	name      string
	templates map[Key]string
}

var (
	defaultSet  *Set
	defaultErr  error
	defaultOnce sync.Once
)

// Default returns the embedded careers template set.
func Default() (*Set, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Load(DefaultFile)
	})
	return defaultSet, defaultErr
}

// Load parses an embedded template file by name.
func Load(filename string) (*Set, error) {
	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	return Parse(filename, data)
}

// Parse decodes a JSON object of key → template. Blank templates are rejected.
func Parse(name string, data []byte) (*Set, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
	}

	set := &Set{name: name, templates: make(map[Key]string, len(raw))}
	for key, tmpl := range raw {
		if strings.TrimSpace(tmpl) == "" {
			return nil, fmt.Errorf("prompt %q in %s is empty", key, name)
		}
		set.templates[Key(key)] = tmpl
	}
	return set, nil
}

// Get returns the raw template for key.
func (s *Set) Get(key Key) (string, error) {
	tmpl, ok := s.templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, s.name)
	}
	return tmpl, nil
}

// Keys returns the template keys in sorted order.
func (s *Set) Keys() []Key {
	keys := make([]Key, 0, len(s.templates))
	for key := range s.templates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Placeholders returns the distinct placeholder names used by key's template.
func (s *Set) Placeholders(key Key) ([]string, error) {
	tmpl, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	return placeholders(tmpl), nil
}

// Render fills key's template from data. Every placeholder must have a value;
// extra values are ignored.
func (s *Set) Render(key Key, data map[string]string) (string, error) {
	tmpl, err := s.Get(key)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range placeholders(tmpl) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %q: no value for %s", key, strings.Join(missing, ", "))
	}

	return Format(tmpl, data), nil
}

// MustRender renders a template from the embedded set and panics on any error.
// Templates are compiled into the binary, so a failure is a programming error.
func MustRender(key Key, data map[string]string) string {
	set, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load prompts: %v", err))
	}
	out, err := set.Render(key, data)
	if err != nil {
		panic(fmt.Sprintf("failed to render prompt: %v", err))
	}
	return out
}

// Format replaces {{.Key}} placeholders with values from data in a single pass,
// so placeholders inside substituted values are left untouched. Placeholders
// without a value stay as they are.
func Format(template string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
