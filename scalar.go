package goshape

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MixedSchema accepts any value.
type MixedSchema struct{ core }

// Mixed returns a schema that accepts any value.
func Mixed() *MixedSchema {
	return &MixedSchema{core: newCore(KindMixed, func(any) bool { return true })}
}

func (s *MixedSchema) castValue(v any, o *options) (any, error) { return s.castBase(v, o) }
func (s *MixedSchema) validateValue(ctx context.Context, v any, o *options) (any, error) {
	return validateBase(ctx, s, v, o)
}

// Describe exports the schema structure.
func (s *MixedSchema) Describe() *Description { return describeCore(&s.core) }

// StringSchema accepts strings. Numbers and booleans are cast to their text.
type StringSchema struct{ core }

// String returns a string schema.
func String() *StringSchema {
	s := &StringSchema{core: newCore(KindString, func(v any) bool {
		_, ok := v.(string)
		return ok
	})}
	s.addTransform(func(v, _ any, _ *options) (any, error) {
		switch t := v.(type) {
		case string, nil, undefined:
			return v, nil
		case bool:
			return strconv.FormatBool(t), nil
		case json.Number:
			return t.String(), nil
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), nil
		}
		if f, ok := toFloat(v); ok {
			switch reflect.TypeOf(v).Kind() {
			case reflect.Float32:
				return strconv.FormatFloat(f, 'f', -1, 32), nil
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
				return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
			default:
				return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
			}
		}
		return v, nil
	})
	return s
}

func (s *StringSchema) castValue(v any, o *options) (any, error) { return s.castBase(v, o) }
func (s *StringSchema) validateValue(ctx context.Context, v any, o *options) (any, error) {
	return validateBase(ctx, s, v, o)
}

// Describe exports the schema structure.
func (s *StringSchema) Describe() *Description { return describeCore(&s.core) }

// Min requires at least n characters. n may be a *Reference.
func (s *StringSchema) Min(n any, msg ...string) *StringSchema {
	return s.with(func(c *core) { c.addTest(lengthTest(TestMin, "string.min", n, first(msg), runeLen, cmpGE)) })
}

// Max allows at most n characters. n may be a *Reference.
func (s *StringSchema) Max(n any, msg ...string) *StringSchema {
	return s.with(func(c *core) { c.addTest(lengthTest(TestMax, "string.max", n, first(msg), runeLen, cmpLE)) })
}

// Length requires exactly n characters. n may be a *Reference.
func (s *StringSchema) Length(n any, msg ...string) *StringSchema {
	return s.with(func(c *core) { c.addTest(lengthTest(TestLength, "string.length", n, first(msg), runeLen, cmpEQ)) })
}

// Matches requires the value to match re. Empty strings are accepted when
// excludeEmpty is set.
func (s *StringSchema) Matches(re *regexp.Regexp, excludeEmpty bool, msg ...string) *StringSchema {
	return s.with(func(c *core) {
		c.addTest(&Test{
			Name:    TestMatches,
			Message: first(msg),
			Params:  Params{"regex": re.String()},
			tmplKey: "string.matches",
			Fn: func(tc *TestContext, value any) (bool, error) {
				str, ok := value.(string)
				if !ok || (str == "" && excludeEmpty) {
					return true, nil
				}
				return re.MatchString(str), nil
			},
		})
	})
}

// Trim removes surrounding whitespace during cast.
func (s *StringSchema) Trim() *StringSchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, _ any, _ *options) (any, error) {
			if str, ok := v.(string); ok {
				return strings.TrimSpace(str), nil
			}
			return v, nil
		})
	})
}

// Lowercase lower-cases the value during cast.
func (s *StringSchema) Lowercase() *StringSchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, _ any, _ *options) (any, error) {
			if str, ok := v.(string); ok {
				return strings.ToLower(str), nil
			}
			return v, nil
		})
	})
}

// NumberSchema accepts finite numbers of any Go numeric type. Numeric text is
// parsed into float64.
type NumberSchema struct{ core }

// Number returns a number schema.
func Number() *NumberSchema {
	s := &NumberSchema{core: newCore(KindNumber, func(v any) bool {
		f, ok := toFloat(v)
		if _, isText := v.(json.Number); isText {
			return false
		}
		return ok && !math.IsNaN(f)
	})}
	s.addTransform(func(v, _ any, o *options) (any, error) {
		switch t := v.(type) {
		case string:
			f, err := strconv.ParseFloat(strings.Join(strings.Fields(t), ""), 64)
			if err != nil {
				o.logger.Debug("number coercion failed", "path", o.path, "error", err)
				return math.NaN(), nil
			}
			return f, nil
		case json.Number:
			f, err := t.Float64()
			if err != nil {
				return math.NaN(), nil
			}
			return f, nil
		}
		return v, nil
	})
	return s
}

func (s *NumberSchema) castValue(v any, o *options) (any, error) { return s.castBase(v, o) }
func (s *NumberSchema) validateValue(ctx context.Context, v any, o *options) (any, error) {
	return validateBase(ctx, s, v, o)
}

// Describe exports the schema structure.
func (s *NumberSchema) Describe() *Description { return describeCore(&s.core) }

// Min requires value >= n. n may be a *Reference.
func (s *NumberSchema) Min(n any, msg ...string) *NumberSchema {
	return s.with(func(c *core) { c.addTest(lengthTest(TestMin, "number.min", n, first(msg), toFloat, cmpGE)) })
}

// Max requires value <= n. n may be a *Reference.
func (s *NumberSchema) Max(n any, msg ...string) *NumberSchema {
	return s.with(func(c *core) { c.addTest(lengthTest(TestMax, "number.max", n, first(msg), toFloat, cmpLE)) })
}

// Integer requires a whole number.
func (s *NumberSchema) Integer(msg ...string) *NumberSchema {
	return s.with(func(c *core) {
		c.addTest(&Test{
			Name:    TestInteger,
			Message: first(msg),
			tmplKey: "number.integer",
			Fn: func(tc *TestContext, value any) (bool, error) {
				f, ok := toFloat(value)
				if IsAbsent(value) || !ok {
					return true, nil
				}
				return f == math.Trunc(f), nil
			},
		})
	})
}

// BooleanSchema accepts booleans; "true"/"1" and "false"/"0" are cast.
type BooleanSchema struct{ core }

// Boolean returns a boolean schema.
func Boolean() *BooleanSchema {
	s := &BooleanSchema{core: newCore(KindBoolean, func(v any) bool {
		_, ok := v.(bool)
		return ok
	})}
	s.addTransform(func(v, _ any, _ *options) (any, error) {
		if _, ok := v.(bool); ok || IsAbsent(v) {
			return v, nil
		}
		switch strings.ToLower(printValue(v)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return v, nil
	})
	return s
}

func (s *BooleanSchema) castValue(v any, o *options) (any, error) { return s.castBase(v, o) }
func (s *BooleanSchema) validateValue(ctx context.Context, v any, o *options) (any, error) {
	return validateBase(ctx, s, v, o)
}

// Describe exports the schema structure.
func (s *BooleanSchema) Describe() *Description { return describeCore(&s.core) }

// lengthTest builds an exclusive comparison test between measure(value) and a
// literal or referenced bound. Absent values and unresolvable bounds pass.
func lengthTest(name, tmplKey string, bound any, msg string, measure func(any) (float64, bool), cmp func(a, b float64) bool) *Test {
	return &Test{
		Name:      name,
		Message:   msg,
		Exclusive: true,
		Params:    Params{name: bound},
		tmplKey:   tmplKey,
		Fn: func(tc *TestContext, value any) (bool, error) {
			if IsAbsent(value) {
				return true, nil
			}
			got, ok := measure(value)
			if !ok {
				return true, nil
			}
			want, ok := toFloat(tc.Resolve(bound))
			if !ok {
				return true, nil
			}
			return cmp(got, want), nil
		},
	}
}

func runeLen(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	return float64(utf8.RuneCountInString(s)), true
}

func seqLen(v any) (float64, bool) {
	if !isSequence(v) {
		return 0, false
	}
	return float64(reflect.ValueOf(v).Len()), true
}

func cmpGE(a, b float64) bool { return a >= b }
func cmpLE(a, b float64) bool { return a <= b }
func cmpEQ(a, b float64) bool { return a == b }

func first(msg []string) string {
	if len(msg) > 0 {
		return msg[0]
	}
	return ""
}
