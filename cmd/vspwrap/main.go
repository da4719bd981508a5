// Command vspwrap builds parametric vehicles from scripts and exports them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/vspwrap/pkg/config"
	"github.com/chazu/vspwrap/pkg/kernel"
	"github.com/chazu/vspwrap/pkg/logging"
	"github.com/chazu/vspwrap/pkg/sample"
)

// errFailed is returned after problems have already been printed.
var errFailed = errors.New("vspwrap: model has errors")

type options struct {
	configPath string
	logLevel   string
	format     string
	dumpFormat string
	out        string
	metrics    bool

	app   *App
	flush func()
}

func newRootCmd() *cobra.Command {
	o := &options{flush: func() {}}

	root := &cobra.Command{
		Use:           "vspwrap",
		Short:         "Build parametric vehicle geometry from scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			o.flush()
		},
	}
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default ./vspwrap.yaml if present)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "override log.level (debug, info, -1 for V(1) detail)")

	run := &cobra.Command{
		Use:   "run <script>",
		Short: "Evaluate a vehicle script and optionally export it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, result, err := o.evaluate(args[0])
			if err != nil {
				return err
			}
			if err := report(cmd.ErrOrStderr(), result); err != nil {
				return err
			}
			if o.out != "" {
				format, err := kernel.ParseExportFormat(o.format)
				if err != nil {
					return err
				}
				if err := o.app.Export(m, o.out, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", o.out)
			}
			if o.metrics {
				return o.app.WriteMetrics(cmd.OutOrStdout())
			}
			return nil
		},
	}
	run.Flags().StringVarP(&o.out, "out", "o", "", "export path")
	run.Flags().StringVar(&o.format, "format", "stl", "export format: stl or json")
	run.Flags().BoolVar(&o.metrics, "metrics", false, "print kernel metrics after the run")

	dump := &cobra.Command{
		Use:   "dump <script>",
		Short: "Evaluate a vehicle script and print its parameter tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := o.evaluate(args[0])
			if err != nil {
				return err
			}
			if err := Dump(cmd.OutOrStdout(), result, o.dumpFormat); err != nil {
				return err
			}
			if !result.OK() {
				return errFailed
			}
			return nil
		},
	}
	dump.Flags().StringVar(&o.dumpFormat, "format", "yaml", "output format: yaml or json")

	validate := &cobra.Command{
		Use:   "validate <script>",
		Short: "Evaluate a vehicle script and report structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := o.evaluate(args[0])
			if err != nil {
				return err
			}
			if err := report(cmd.ErrOrStderr(), result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d components, %d warnings\n",
				len(result.Components), len(result.Warnings))
			return nil
		},
	}

	smp := &cobra.Command{
		Use:   "sample",
		Short: "Build the reference sample vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, result, err := o.app.Sample(sample.DefaultParams())
			if err != nil {
				return err
			}
			if err := report(cmd.ErrOrStderr(), result); err != nil {
				return err
			}
			if o.out == "" {
				return Dump(cmd.OutOrStdout(), result, "yaml")
			}
			format, err := kernel.ParseExportFormat(o.format)
			if err != nil {
				return err
			}
			if err := o.app.Export(m, o.out, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", o.out)
			return nil
		},
	}
	smp.Flags().StringVarP(&o.out, "out", "o", "", "export path; prints the parameter tree when empty")
	smp.Flags().StringVar(&o.format, "format", "stl", "export format: stl or json")

	root.AddCommand(run, dump, validate, smp)
	return root
}

// setup loads configuration and builds the App.
func (o *options) setup() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	log, flush, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	o.flush = flush
	o.app = NewApp(cfg, log)
	return nil
}

func (o *options) evaluate(path string) (*Model, EvalResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, EvalResult{}, err
	}
	m, result := o.app.Evaluate(string(source))
	return m, result, nil
}

// report prints warnings and errors and returns errFailed when there are
// errors.
func report(w io.Writer, result EvalResult) error {
	for _, e := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", e.Message)
	}
	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "error: line %d: %s\n", e.Line, e.Message)
			continue
		}
		fmt.Fprintf(w, "error: %s\n", e.Message)
	}
	if !result.OK() {
		return errFailed
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

