// Package llm - extractor.go renders output schemas into prompt text for calls
// that cannot use a native response schema.
package llm

import (
	"fmt"
	"sort"
	"strings"
)

// DescribeSchema renders an example JSON value for s, two-space indented, with
// string fields shown as their description or a placeholder.
func DescribeSchema(s *Schema) string {
	var sb strings.Builder
	describe(&sb, s, 0)
	return sb.String()
}

func describe(sb *strings.Builder, s *Schema, depth int) {
	if s == nil {
		sb.WriteString("null")
		return
	}
	indent := strings.Repeat("  ", depth)

	switch s.Type {
	case TypeObject:
		sb.WriteString("{\n")
		names := propertyOrder(s)
		for i, name := range names {
			fmt.Fprintf(sb, "%s  %q: ", indent, name)
			describe(sb, s.Properties[name], depth+1)
			if i < len(names)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indent + "}")
	case TypeArray:
		sb.WriteString("[\n")
		sb.WriteString(indent + "  ")
		describe(sb, s.Items, depth+1)
		sb.WriteString("\n" + indent + "]")
	case TypeNumber, TypeInteger:
		sb.WriteString("0")
	case TypeBoolean:
		sb.WriteString("false")
	default:
		switch {
		case len(s.Enum) > 0:
			fmt.Fprintf(sb, "%q", strings.Join(s.Enum, " | "))
		case s.Description != "":
			fmt.Fprintf(sb, "%q", s.Description)
		default:
			sb.WriteString(`"string"`)
		}
	}
}

func propertyOrder(s *Schema) []string {
	if len(s.Order) > 0 {
		return s.Order
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
