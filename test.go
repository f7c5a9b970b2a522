package goshape

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/reoring/goshape/i18n"
)

// Params carries test parameters, interpolated into messages as ${name}.
type Params map[string]any

// TestFunc is a test predicate. Returning false fails with the test's own
// message; returning a *ValidationError (usually from tc.CreateError) fails
// with that error; any other error aborts validation.
type TestFunc func(tc *TestContext, value any) (bool, error)

// Test is a named constraint attached to a schema.
type Test struct {
	Name string
	// Message is a template such as "${path} is too short"; when empty the
	// translator template for Name (or "default") is used.
	Message     string
	MessageFunc func(Params) string
	Params      Params
	// Exclusive tests replace earlier tests registered under the same name.
	Exclusive bool
	// Async marks a predicate that may block, for example on I/O. Such tests
	// are rejected by ValidateSync.
	Async bool
	Fn    TestFunc

	// tmplKey selects a translator template for built-in tests.
	tmplKey string
}

// TestContext is handed to predicates.
type TestContext struct {
	Path          string
	Parent        any
	OriginalValue any
	Schema        Schema
	ContextBag    map[string]any
	From          []Ancestor

	ctx   context.Context
	value any
	label string
	test  *Test
}

// Context returns the context of the validate call.
func (tc *TestContext) Context() context.Context { return tc.ctx }

// Resolve returns the value of a *Reference, or v unchanged.
func (tc *TestContext) Resolve(v any) any {
	if r, ok := v.(*Reference); ok {
		return r.GetValue(tc.value, tc.Parent, tc.ContextBag, tc.From)
	}
	return v
}

// ErrorOption overrides parts of an error built by CreateError.
type ErrorOption func(*errorOverrides)

type errorOverrides struct {
	path    string
	message string
	typ     string
	params  Params
}

// ErrorPath overrides the reported path.
func ErrorPath(p string) ErrorOption { return func(o *errorOverrides) { o.path = p } }

// ErrorMessage overrides the message template.
func ErrorMessage(m string) ErrorOption { return func(o *errorOverrides) { o.message = m } }

// ErrorType overrides the reported test name.
func ErrorType(t string) ErrorOption { return func(o *errorOverrides) { o.typ = t } }

// ErrorParams adds parameters for message interpolation.
func ErrorParams(p Params) ErrorOption { return func(o *errorOverrides) { o.params = p } }

// CreateError builds the validation error for the running test.
func (tc *TestContext) CreateError(opts ...ErrorOption) *ValidationError {
	var ov errorOverrides
	for _, opt := range opts {
		opt(&ov)
	}
	path := tc.Path
	if ov.path != "" {
		path = ov.path
	}
	params := Params{
		"value":         tc.value,
		"originalValue": tc.OriginalValue,
		"label":         tc.label,
		"path":          path,
	}
	for k, v := range tc.test.Params {
		params[k] = v
	}
	for k, v := range ov.params {
		params[k] = v
	}
	for k, v := range params {
		params[k] = tc.Resolve(v)
	}
	typ := tc.test.Name
	if ov.typ != "" {
		typ = ov.typ
	}
	var msg string
	switch {
	case ov.message != "":
		msg = formatMessage(ov.message, params)
	case tc.test.MessageFunc != nil:
		msg = tc.test.MessageFunc(withDisplayPath(params))
	default:
		msg = formatMessage(tc.test.template(), params)
	}
	return &ValidationError{Path: path, Message: msg, Value: tc.value, Type: typ, Params: params, Errors: []string{msg}}
}

func (t *Test) template() string {
	if t.Message != "" {
		return t.Message
	}
	if t.tmplKey != "" {
		return i18n.T(t.tmplKey)
	}
	return i18n.T(TestDefault)
}

var placeholder = regexp.MustCompile(`\$\{\s*(\w+)\s*\}`)

// formatMessage interpolates ${name} placeholders. ${path} falls back to the
// label, then to "this" for the root.
func formatMessage(tmpl string, params Params) string {
	p := withDisplayPath(params)
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		v, ok := p[key]
		if !ok {
			return m
		}
		return printValue(v)
	})
}

func withDisplayPath(params Params) Params {
	out := make(Params, len(params))
	for k, v := range params {
		out[k] = v
	}
	if l, _ := params["label"].(string); l != "" {
		out["path"] = l
	} else if p, _ := params["path"].(string); p == "" {
		out["path"] = "this"
	}
	return out
}

// testArgs is the per-value state shared by every test of one node.
type testArgs struct {
	value         any
	originalValue any
	schema        Schema
	label         string
	o             *options
}

// exec runs one test and maps its outcome onto nil, a *ValidationError or a
// fatal error.
func (t *Test) exec(ctx context.Context, a *testArgs) error {
	if t.Async && a.o.sync {
		return fmt.Errorf("goshape: test %q: %w", t.Name, ErrAsyncInSync)
	}
	tc := &TestContext{
		Path:          a.o.path,
		Parent:        a.o.parent,
		OriginalValue: a.originalValue,
		Schema:        a.schema,
		ContextBag:    a.o.context,
		From:          a.o.from,
		ctx:           ctx,
		value:         a.value,
		label:         a.label,
		test:          t,
	}
	ok, err := t.Fn(tc, a.value)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return err
	}
	if !ok {
		return tc.CreateError()
	}
	return nil
}

func testTasks(tests []*Test, a *testArgs) []task {
	out := make([]task, 0, len(tests))
	for _, t := range tests {
		t := t
		out = append(out, task{
			async: t.Async,
			run:   func(ctx context.Context) error { return t.exec(ctx, a) },
		})
	}
	return out
}

func validateTest(t *Test) *Test {
	if t == nil || t.Fn == nil {
		panic(configErr("test", fmt.Errorf("%w: missing predicate", ErrInvalidTest)))
	}
	if t.Exclusive && t.Name == "" {
		panic(configErr("test", fmt.Errorf("%w: exclusive tests must be named", ErrInvalidTest)))
	}
	return t
}
