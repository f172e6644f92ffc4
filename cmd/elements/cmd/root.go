// Package cmd implements the elements CLI commands.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-drift/elements/cmd/elements/internal/config"
	"github.com/go-drift/elements/cmd/elements/internal/tracing"
	"github.com/go-drift/elements/pkg/log"
)

var version = "dev"

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}

// app is the state shared by the commands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	cfg      config.Config
	provider *tracing.Provider
	closeLog func()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "elements",
		Short: "Run reactive custom element scenarios",
		Long: `elements mounts the demo custom elements into an in-memory document,
applies the steps of a scenario file and prints the document after each
step together with the number of render passes it caused.`,
		Version:            version,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: nearest "+config.FileName+")")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.Bool("trace", false, "export element.render spans")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.file", flags.Lookup("log-file"))
	_ = a.v.BindPFlag("trace.enabled", flags.Lookup("trace"))

	root.AddCommand(newPlayCmd(a), newTypesCmd(), newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := log.ParseLevel(cfg.Log.Level)
	log.SetMinLevel(level)
	if cfg.Log.File != "" {
		closeLog, err := log.Init(cfg.Log.File)
		if err != nil {
			return err
		}
		a.closeLog = closeLog
	} else {
		log.SetOutput(cmd.ErrOrStderr())
	}

	a.provider, err = tracing.NewProvider(cfg.Trace, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.closeLog != nil {
		defer a.closeLog()
	}
	if a.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.provider.Shutdown(ctx)
}

// scenarioVersion is the version scenarios are checked against.
func (a *app) scenarioVersion() string {
	if a.cfg.Version != "" {
		return a.cfg.Version
	}
	return version
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "elements version %s\n", version)
		},
	}
}
