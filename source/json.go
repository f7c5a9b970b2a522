package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	goshape "github.com/reoring/goshape"
)

// DuplicateKeyError reports an object key that appears twice.
type DuplicateKeyError struct {
	Path string
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("source: duplicate key %q at %s", e.Key, e.Path)
}

// StrictJSON decodes data as JSON and rejects documents whose objects repeat
// a key. Plain decoders silently keep the last occurrence.
func StrictJSON(data []byte) goshape.Source {
	return goshape.SourceFunc(func(ctx context.Context) (any, error) {
		if err := detectDuplicateKeys(json.NewDecoder(bytes.NewReader(data))); err != nil {
			return nil, err
		}
		return goshape.JSONBytes(data).Decode(ctx)
	})
}

// StrictJSONReader reads r fully and decodes it like StrictJSON.
func StrictJSONReader(r io.Reader) goshape.Source {
	return goshape.SourceFunc(func(ctx context.Context) (any, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("source: read json: %w", err)
		}
		return StrictJSON(data).Decode(ctx)
	})
}

type frameKind int

const (
	frameObject frameKind = iota
	frameArray
)

type frame struct {
	kind         frameKind
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

// detectDuplicateKeys walks the token stream and returns the first
// *DuplicateKeyError.
func detectDuplicateKeys(dec *json.Decoder) error {
	dec.UseNumber()
	var stack []*frame

	// valueDone advances the enclosing container past one value.
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.kind == frameObject {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("source: decode json: %w", err)
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, &frame{kind: frameObject, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, &frame{kind: frameArray})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].kind == frameObject && stack[n-1].expectingKey {
				top := stack[n-1]
				if _, dup := top.keys[v]; dup {
					return &DuplicateKeyError{Path: pointer(stack[:n-1]), Key: v}
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

// pointer renders the JSON Pointer of the container at the top of stack.
func pointer(stack []*frame) string {
	if len(stack) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, f := range stack {
		b.WriteByte('/')
		if f.kind == frameObject {
			b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(f.key))
		} else {
			fmt.Fprintf(&b, "%d", f.index)
		}
	}
	return b.String()
}
