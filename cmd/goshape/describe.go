package main

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/goshape/jsonschema"
	"github.com/reoring/goshape/openapi"
)

var describeFormat string

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the schema as a description, JSON Schema or OpenAPI schema",
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().StringVarP(&describeFormat, "output", "o", "json", "json, yaml, jsonschema or openapi")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	s, err := loadSchema(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	switch describeFormat {
	case "json":
		return printJSON(w, s.Describe())
	case "yaml":
		// Round-trip through JSON so the YAML keys follow the json tags.
		data, err := gojson.Marshal(s.Describe())
		if err != nil {
			return err
		}
		var v any
		if err := gojson.Unmarshal(data, &v); err != nil {
			return err
		}
		return printYAML(w, v)
	case "jsonschema":
		data, err := jsonschema.Marshal(jsonschema.Export(s))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "openapi":
		return printJSON(w, openapi.Export(s))
	}
	return fmt.Errorf("unknown output %q", describeFormat)
}
