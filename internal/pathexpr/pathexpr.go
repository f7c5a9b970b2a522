// Package pathexpr parses and evaluates dot/bracket value paths such as
// `items[2].name` or `meta["a.b"]`.
package pathexpr

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Segment is one step of a path: either a record key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Parse splits a path into segments.
//
//	a.b      -> [a b]
//	a[0].b   -> [a 0 b]
//	a["x.y"] -> [a x.y]
//	a['x']   -> [a x]
func Parse(path string) ([]Segment, error) {
	var segs []Segment
	i := 0
	n := len(path)
	for i < n {
		switch c := path[i]; c {
		case '.':
			if i == 0 || i == n-1 || path[i+1] == '.' {
				return nil, fmt.Errorf("pathexpr: empty segment in %q", path)
			}
			i++
		case '[':
			end := closingBracket(path[i:])
			if end < 0 {
				return nil, fmt.Errorf("pathexpr: unterminated bracket in %q", path)
			}
			inner := path[i+1 : i+end]
			seg, err := bracket(inner)
			if err != nil {
				return nil, fmt.Errorf("pathexpr: %q: %w", path, err)
			}
			segs = append(segs, seg)
			i += end + 1
		default:
			j := i
			for j < n && path[j] != '.' && path[j] != '[' {
				j++
			}
			segs = append(segs, Segment{Key: path[i:j]})
			i = j
		}
	}
	return segs, nil
}

// closingBracket returns the index of the ']' closing the bracket that opens
// s, skipping over a quoted key, or -1.
func closingBracket(s string) int {
	if len(s) > 1 && (s[1] == '"' || s[1] == '\'') {
		if q := strings.IndexByte(s[2:], s[1]); q >= 0 && 2+q+1 < len(s) && s[2+q+1] == ']' {
			return 2 + q + 1
		}
	}
	return strings.IndexByte(s, ']')
}

func bracket(inner string) (Segment, error) {
	if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') && inner[len(inner)-1] == inner[0] {
		return Segment{Key: inner[1 : len(inner)-1]}, nil
	}
	idx, err := strconv.Atoi(strings.TrimSpace(inner))
	if err != nil {
		if inner == "" {
			return Segment{}, fmt.Errorf("empty brackets")
		}
		return Segment{Key: inner}, nil
	}
	return Segment{Index: idx, IsIndex: true}, nil
}

// Get walks root along segs. Records are map[string]any (or any map keyed by
// strings); sequences are any slice or array. A numeric segment may address
// a record key and a key segment may address a sequence index.
func Get(root any, segs []Segment) (any, bool) {
	cur := root
	for _, s := range segs {
		next, ok := step(cur, s)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func step(cur any, s Segment) (any, bool) {
	if m, ok := cur.(map[string]any); ok {
		v, ok := m[s.Name()]
		return v, ok
	}
	rv := reflect.ValueOf(cur)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(s.Name()).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		idx := s.Index
		if !s.IsIndex {
			n, err := strconv.Atoi(s.Key)
			if err != nil {
				return nil, false
			}
			idx = n
		}
		if idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	default:
		return nil, false
	}
}

// Name renders the segment as a plain record key.
func (s Segment) Name() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Field appends a record key to a rendered parent path. Keys containing a dot
// are written in bracket form so the result parses back to the same segments.
func Field(parent, key string) string {
	if strings.ContainsAny(key, ".[]") {
		return parent + `["` + key + `"]`
	}
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// Index appends a sequence index to a rendered parent path.
func Index(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// Head returns the first segment of child relative to parent, reporting false
// when child is not below parent.
func Head(parent, child string) (Segment, bool) {
	rest := child
	if parent != "" {
		if !strings.HasPrefix(child, parent) {
			return Segment{}, false
		}
		rest = strings.TrimPrefix(child[len(parent):], ".")
	}
	segs, err := Parse(rest)
	if err != nil || len(segs) == 0 {
		return Segment{}, false
	}
	return segs[0], true
}
