// Package extract isolates a JSON value from free-form model output.
//
// Model responses are supposed to contain exactly one JSON array or object but
// routinely arrive wrapped in prose or markdown fences, or truncated mid-structure.
// Extraction runs a chain of strategies and reports which one succeeded; it never
// fails loudly, so callers can apply their own defaults.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Shape is the kind of top-level JSON value expected in a response.
type Shape int

const (
	// ShapeArray expects a JSON array.
	ShapeArray Shape = iota
	// ShapeObject expects a JSON object.
	ShapeObject
)

func (s Shape) open() byte {
	if s == ShapeObject {
		return '{'
	}
	return '['
}

func (s Shape) close() byte {
	if s == ShapeObject {
		return '}'
	}
	return ']'
}

func (s Shape) String() string {
	if s == ShapeObject {
		return "object"
	}
	return "array"
}

// Strategy identifies which step of the fallback chain produced a result.
type Strategy string

// Strategies in the order they are attempted.
const (
	StrategyNone     Strategy = "none"
	StrategyBalanced Strategy = "balanced"
	StrategyPartial  Strategy = "partial"
	StrategyPattern  Strategy = "pattern"
	StrategyWhole    Strategy = "whole"
)

// Result is the outcome of an extraction. JSON is nil when nothing parseable was found.
type Result struct {
	JSON     json.RawMessage
	Strategy Strategy
}

// OK reports whether a parseable JSON value was recovered.
func (r Result) OK() bool {
	return len(r.JSON) > 0
}

var (
	fenceJSON = regexp.MustCompile("```json\\s*")
	fenceAny  = regexp.MustCompile("```\\s*")

	lazyArray    = regexp.MustCompile(`\[[\s\S]*?\]`)
	greedyObject = regexp.MustCompile(`\{[\s\S]*\}`)
)

// StripFences removes markdown code-fence markers anywhere in text and trims the result.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	text = fenceJSON.ReplaceAllString(text, "")
	text = fenceAny.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Array extracts a JSON array from text.
func Array(text string) Result {
	return Extract(text, ShapeArray)
}

// Object extracts a JSON object from text.
func Object(text string) Result {
	return Extract(text, ShapeObject)
}

// Extract runs the fallback chain for the given shape:
// balanced span, partial object recovery (arrays only), pattern match, then the whole
// cleaned text. The first candidate that parses as JSON wins.
func Extract(text string, shape Shape) Result {
	cleaned := StripFences(text)

	candidate, strategy := Candidate(cleaned, shape)
	if candidate != "" && json.Valid([]byte(candidate)) {
		return Result{JSON: json.RawMessage(candidate), Strategy: strategy}
	}

	if cleaned != "" && json.Valid([]byte(cleaned)) {
		return Result{JSON: json.RawMessage(cleaned), Strategy: StrategyWhole}
	}

	return Result{Strategy: StrategyNone}
}

// Candidate returns the most plausible JSON substring of already-cleaned text without
// checking that it parses. It returns "" and StrategyNone when no candidate exists.
func Candidate(cleaned string, shape Shape) (string, Strategy) {
	start := strings.IndexByte(cleaned, shape.open())
	if start >= 0 {
		if end := balancedEnd(cleaned, start, shape.open(), shape.close()); end >= 0 {
			return cleaned[start : end+1], StrategyBalanced
		}

		if shape == ShapeArray {
			if objects := completeObjects(cleaned[start+1:]); len(objects) > 0 {
				return "[" + strings.Join(objects, ",") + "]", StrategyPartial
			}
		}
	}

	pattern := lazyArray
	if shape == ShapeObject {
		pattern = greedyObject
	}
	if match := pattern.FindString(cleaned); match != "" {
		return match, StrategyPattern
	}

	return "", StrategyNone
}

// scanner tracks whether the cursor is inside a JSON string literal so that
// brackets in string content are ignored.
type scanner struct {
	inString bool
	escaped  bool
}

// structural reports whether c at the current position is outside any string literal,
// updating string/escape state as it goes.
func (s *scanner) structural(c byte) bool {
	if s.escaped {
		s.escaped = false
		return false
	}
	if s.inString {
		switch c {
		case '\\':
			s.escaped = true
		case '"':
			s.inString = false
		}
		return false
	}
	if c == '"' {
		s.inString = true
		return false
	}
	return true
}

// balancedEnd returns the index of the bracket closing the one at start, or -1.
func balancedEnd(text string, start int, open, close byte) int {
	var sc scanner
	depth := 0
	for i := start; i < len(text); i++ {
		c := text[i]
		if !sc.structural(c) {
			continue
		}
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// completeObjects returns every top-level {...} object in text that closes before
// the text ends. A trailing unfinished object is dropped.
func completeObjects(text string) []string {
	var (
		sc      scanner
		objects []string
		depth   int
		begin   = -1
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !sc.structural(c) {
			continue
		}
		switch c {
		case '{':
			if depth == 0 {
				begin = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && begin >= 0 {
				objects = append(objects, text[begin:i+1])
				begin = -1
			}
		}
	}
	return objects
}
