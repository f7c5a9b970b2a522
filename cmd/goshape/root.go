package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dsl"
	"github.com/reoring/goshape/internal/logging"
	"github.com/reoring/goshape/openapi"
)

type globalFlags struct {
	schema       string
	schemaFormat string
	redisAddr    string
	verbose      bool
	noColor      bool
}

var global globalFlags

var rootCmd = &cobra.Command{
	Use:           "goshape",
	Short:         "Validate and cast documents against goshape schemas",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if global.noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
			color.NoColor = true
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if _, ok := err.(exitError); !ok {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

// exitError signals a failure that has already been reported.
type exitError struct{}

func (exitError) Error() string { return "failed" }

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&global.schema, "schema", "s", "", "schema file")
	pf.StringVar(&global.schemaFormat, "schema-format", "", "schema format: dsl, openapi or crd (default from extension)")
	pf.StringVar(&global.redisAddr, "redis", "", "Redis address for inSet/notInSet rules")
	pf.BoolVarP(&global.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.BoolVar(&global.noColor, "no-color", false, "disable colored output")
}

func logger() *slog.Logger {
	if global.verbose {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelWarn)
}

// loadSchema reads the --schema file.
func loadSchema(ctx context.Context) (goshape.Schema, error) {
	if global.schema == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	data, err := os.ReadFile(global.schema)
	if err != nil {
		return nil, err
	}
	format := global.schemaFormat
	if format == "" {
		format = "dsl"
		if strings.HasSuffix(global.schema, ".openapi.json") {
			format = "openapi"
		}
	}
	switch format {
	case "dsl":
		var opts []dsl.Option
		if global.redisAddr != "" {
			client := redis.NewClient(&redis.Options{Addr: global.redisAddr})
			if err := client.Ping(ctx).Err(); err != nil {
				return nil, fmt.Errorf("redis %s: %w", global.redisAddr, err)
			}
			opts = append(opts, dsl.WithSetChecker(client))
		}
		return dsl.Load(data, opts...)
	case "openapi":
		return openapi.ImportJSON(data)
	case "crd":
		return openapi.ImportCRD(data)
	}
	return nil, fmt.Errorf("unknown schema format %q", format)
}
