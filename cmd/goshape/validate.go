package main

import (
	"github.com/spf13/cobra"

	goshape "github.com/reoring/goshape"
)

type validateFlags struct {
	input        inputFlags
	abortEarly   bool
	stripUnknown bool
	strict       bool
	context      string
	quiet        bool
}

var validateOpts validateFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a document and print the cast result",
	RunE:  runValidate,
}

func init() {
	validateOpts.input.register(validateCmd)
	fl := validateCmd.Flags()
	fl.BoolVar(&validateOpts.abortEarly, "abort-early", false, "stop at the first error")
	fl.BoolVar(&validateOpts.stripUnknown, "strip-unknown", false, "drop undeclared object keys")
	fl.BoolVar(&validateOpts.strict, "strict", false, "skip casting and validate the raw document")
	fl.StringVar(&validateOpts.context, "context", "", "JSON or YAML file whose keys are visible to $ references")
	fl.BoolVarP(&validateOpts.quiet, "quiet", "q", false, "print nothing on success")
	rootCmd.AddCommand(validateCmd)
}

func (f *validateFlags) options(cmd *cobra.Command) ([]goshape.Option, error) {
	opts := []goshape.Option{
		goshape.AbortEarly(f.abortEarly),
		goshape.WithLogger(logger()),
	}
	// Unset flags leave the schema's own strict and noUnknown settings alone.
	if cmd.Flags().Changed("strip-unknown") {
		opts = append(opts, goshape.StripUnknown(f.stripUnknown))
	}
	if cmd.Flags().Changed("strict") {
		opts = append(opts, goshape.Strict(f.strict))
	}
	if f.context != "" {
		bag, err := readContext(cmd, f.context)
		if err != nil {
			return nil, err
		}
		opts = append(opts, goshape.WithContext(bag))
	}
	return opts, nil
}

func readContext(cmd *cobra.Command, path string) (map[string]any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	src, err := decoder(data, path, "")
	if err != nil {
		return nil, err
	}
	v, err := src.Decode(cmd.Context())
	if err != nil {
		return nil, err
	}
	bag, _ := v.(map[string]any)
	return bag, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	doc, err := validateOpts.input.read(ctx)
	if err != nil {
		return err
	}
	opts, err := validateOpts.options(cmd)
	if err != nil {
		return err
	}
	out, err := s.Validate(ctx, doc, opts...)
	if ve, ok := goshape.AsValidationError(err); ok {
		printErrors(cmd.ErrOrStderr(), ve)
		return exitError{}
	}
	if err != nil {
		return err
	}
	if validateOpts.quiet {
		return nil
	}
	okColor.Fprintln(cmd.ErrOrStderr(), "valid")
	return printJSON(cmd.OutOrStdout(), out)
}
