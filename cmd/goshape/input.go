package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/source"
)

type inputFlags struct {
	path   string
	format string
	patch  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.path, "input", "i", "-", "document to read, - for stdin")
	fl.StringVarP(&f.format, "format", "f", "", "input format: json, yaml or hcl (default from extension)")
	fl.StringVar(&f.patch, "patch", "", "RFC 6902 JSON patch applied to the document first")
}

// read decodes the input document and applies the optional patch.
func (f *inputFlags) read(ctx context.Context) (any, error) {
	data, err := readFile(f.path)
	if err != nil {
		return nil, err
	}
	src, err := decoder(data, f.path, f.format)
	if err != nil {
		return nil, err
	}
	doc, err := src.Decode(ctx)
	if err != nil {
		return nil, err
	}
	if f.patch == "" {
		return doc, nil
	}
	return applyPatch(ctx, doc, f.patch)
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func decoder(data []byte, path, format string) (goshape.Source, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		case ".hcl", ".tf":
			format = "hcl"
		default:
			format = "json"
		}
	}
	switch format {
	case "json":
		return source.StrictJSON(data), nil
	case "yaml":
		return source.YAMLBytes(data), nil
	case "hcl":
		return source.HCLBytes(data, path), nil
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

func applyPatch(ctx context.Context, doc any, path string) (any, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}
	// Patches may be written in YAML; normalize to JSON for the decoder.
	ops, err := source.YAMLBytes(raw).Decode(ctx)
	if err != nil {
		return nil, err
	}
	opsJSON, err := gojson.Marshal(ops)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.DecodePatch(opsJSON)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", path, err)
	}
	docJSON, err := gojson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out, err := patch.Apply(docJSON)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", path, err)
	}
	return goshape.JSONBytes(out).Decode(ctx)
}
