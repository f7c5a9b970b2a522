package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	goshape "github.com/reoring/goshape"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	pathColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

func printJSON(w io.Writer, v any) error {
	if v == goshape.Undefined {
		v = nil
	}
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// printErrors lists the leaf errors of ve, one per line.
func printErrors(w io.Writer, ve *goshape.ValidationError) {
	leaves := ve.Leaves()
	errColor.Fprintf(w, "%d error(s)\n", len(leaves))
	for _, l := range leaves {
		path := l.Path
		if path == "" {
			path = "(root)"
		}
		fmt.Fprintf(w, "  %s: %s", pathColor.Sprint(path), l.Message)
		if l.Type != "" {
			fmt.Fprintf(w, " [%s]", l.Type)
		}
		fmt.Fprintln(w)
	}
}
