package cddl

import (
	"fmt"
	"strings"
)

// cddlPath accumulates a human-readable path into the CDDL AST being
// walked, for the CDDL-side location field of a ValidationError.
type cddlPath struct {
	items []string
}

func (p cddlPath) push(s string) cddlPath {
	items := make([]string, len(p.items), len(p.items)+1)
	copy(items, p.items)
	return cddlPath{items: append(items, s)}
}

func (p cddlPath) String() string {
	if len(p.items) == 0 {
		return "$"
	}
	return strings.Join(p.items, "/")
}

// valuePath accumulates a JSON-Pointer-style path into the value being
// validated, for the value_location field of a ValidationError. Elements
// are either map keys (string) or array indices (int).
type valuePath struct {
	items []interface{}
}

func (p valuePath) pushKey(k string) valuePath {
	items := make([]interface{}, len(p.items), len(p.items)+1)
	copy(items, p.items)
	return valuePath{items: append(items, k)}
}

func (p valuePath) pushIndex(i int) valuePath {
	items := make([]interface{}, len(p.items), len(p.items)+1)
	copy(items, p.items)
	return valuePath{items: append(items, i)}
}

// String renders a JSON-Pointer-shaped path: "/a/0/b".
func (p valuePath) String() string {
	if len(p.items) == 0 {
		return ""
	}
	parts := make([]string, len(p.items))
	for i, v := range p.items {
		switch t := v.(type) {
		case string:
			parts[i] = strings.NewReplacer("~", "~0", "/", "~1").Replace(t)
		case int:
			parts[i] = fmt.Sprintf("%d", t)
		default:
			parts[i] = fmt.Sprintf("%v", t)
		}
	}
	return "/" + strings.Join(parts, "/")
}
