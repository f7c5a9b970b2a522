package main

import (
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	goshape "github.com/reoring/goshape"
)

type castFlags struct {
	input        inputFlags
	stripUnknown bool
	diff         bool
	mergePatch   bool
}

var castOpts castFlags

var castCmd = &cobra.Command{
	Use:   "cast",
	Short: "Coerce a document into the schema's shape without validating it",
	RunE:  runCast,
}

func init() {
	castOpts.input.register(castCmd)
	fl := castCmd.Flags()
	fl.BoolVar(&castOpts.stripUnknown, "strip-unknown", false, "drop undeclared object keys")
	fl.BoolVar(&castOpts.diff, "diff", false, "print a diff between the input and the cast result")
	fl.BoolVar(&castOpts.mergePatch, "merge-patch", false, "print the RFC 7386 merge patch that turns the input into the result")
	castCmd.MarkFlagsMutuallyExclusive("diff", "merge-patch")
	rootCmd.AddCommand(castCmd)
}

func runCast(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	doc, err := castOpts.input.read(ctx)
	if err != nil {
		return err
	}
	opts := []goshape.Option{goshape.WithLogger(logger())}
	if cmd.Flags().Changed("strip-unknown") {
		opts = append(opts, goshape.StripUnknown(castOpts.stripUnknown))
	}
	out, err := s.Cast(doc, opts...)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	switch {
	case castOpts.diff:
		before, err := gojson.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		after, err := gojson.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, lineDiff(string(before), string(after)))
		return err
	case castOpts.mergePatch:
		before, err := gojson.Marshal(doc)
		if err != nil {
			return err
		}
		after, err := gojson.Marshal(out)
		if err != nil {
			return err
		}
		patch, err := jsonpatch.CreateMergePatch(before, after)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(patch))
		return err
	}
	return printJSON(w, out)
}

// lineDiff renders a line-level diff with +/- prefixes.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)
	var sb strings.Builder
	for _, d := range diffs {
		prefix, paint := "  ", fmt.Sprint
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+ ", color.New(color.FgGreen).Sprint
		case diffmatchpatch.DiffDelete:
			prefix, paint = "- ", color.New(color.FgRed).Sprint
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(paint(prefix + line))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
