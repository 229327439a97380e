// Package cli implements the careflow command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/afs/url"
	"github.com/viant/careflow"
	"github.com/viant/careflow/model/validation"
	"github.com/viant/careflow/service/compiler"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when at least one document did not compile cleanly
var ErrInvalid = errors.New("workflow validation failed")

type options struct {
	configFile string
	author     string
	logLevel   string
	format     string
	context    int
	service    *careflow.Service
}

// NewRootCommand creates the careflow command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "careflow",
		Short:         "Compile healthcare workflow documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default ./careflow.yaml)")
	flags.StringVarP(&opts.author, "author", "a", "", "author recorded in definition metadata")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.AddCommand(newCompileCommand(opts), newValidateCommand(opts), newDiffCommand(opts))
	return root
}

func (o *options) init(cmd *cobra.Command) error {
	v := viper.New()
	if err := v.BindPFlag("author", cmd.Flags().Lookup("author")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	config, err := LoadConfig(v, o.configFile)
	if err != nil {
		return err
	}
	logger, err := NewLogger(config.Log.Level)
	if err != nil {
		return err
	}
	o.service = careflow.New(careflow.WithConfig(config), careflow.WithLogger(logger))
	return nil
}

func newCompileCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file>...",
		Short: "Compile documents and print their definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := opts.compileAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			invalid := false
			for _, result := range results {
				if !report(cmd.ErrOrStderr(), result) {
					invalid = true
					continue
				}
				if err := write(cmd.OutOrStdout(), opts.format, result.Output.Definition); err != nil {
					return err
				}
			}
			if invalid {
				return ErrInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate documents and print issues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := opts.compileAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			invalid := false
			for _, result := range results {
				if report(cmd.OutOrStdout(), result) {
					fmt.Fprintf(cmd.OutOrStdout(), "%v: valid\n", result.Source)
				} else {
					invalid = true
				}
			}
			if invalid {
				return ErrInvalid
			}
			return nil
		},
	}
}

func newDiffCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Show the difference between two compiled definitions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			diffReport, err := opts.service.DiffLocations(cmd.Context(), resolve(args[0]), resolve(args[1]))
			if err != nil {
				return err
			}
			if diffReport.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), diffReport.Text)
			return err
		},
	}
	return cmd
}

func (o *options) compileAll(ctx context.Context, locations []string) ([]*careflow.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sources := make([]*careflow.Source, len(locations))
	for i, location := range locations {
		sources[i] = &careflow.Source{Location: resolve(location)}
	}
	return o.service.CompileAll(ctx, sources, o.author)
}

// resolve makes local paths absolute, URLs are returned unchanged
func resolve(location string) string {
	if url.Scheme(location, "") != "" {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}

// report prints errors and warnings of result, it returns true when result is valid
func report(w io.Writer, result *careflow.Result) bool {
	var issues *validation.Result
	if result.Output != nil {
		issues = result.Output.Validation
	}
	var schemaErr *compiler.SchemaError
	if result.Err != nil && !errors.As(result.Err, &schemaErr) {
		fmt.Fprintf(w, "%v: %v\n", result.Source, result.Err)
		return false
	}
	if issues == nil {
		return result.Err == nil
	}
	for _, issue := range issues.Issues() {
		fmt.Fprintf(w, "%v: %v\n", result.Source, issue)
	}
	return result.Err == nil && issues.IsValid
}

func write(w io.Writer, format string, value interface{}) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case "yaml", "":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unsupported format: %v", format)
}
