package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hcj-play/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Dir         string
	ConfigPath  string
	Verbose     bool
	VeryVerbose bool
	LogFile     string
	Version     string
}

// NewRootCommand creates the root command. Without a subcommand it runs
// the editor.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}
	edit := NewEditCommand(opts)

	cmd := &cobra.Command{
		Use:   "hcj-play",
		Short: "hcj-play - HTML/CSS/JS playground in the terminal",
		Long: `A three-buffer playground for markup, styles and script.

Edit in the terminal, press the run key, and the composed page reloads
in the browser preview. Buffers persist between sessions.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          edit.RunE,
	}
	// The bare command accepts the editor's flags too.
	cmd.Flags().AddFlagSet(edit.Flags())

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", config.StateDir, "state directory (config, storage, logs)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default <dir>/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "INFO logs")
	cmd.PersistentFlags().BoolVar(&opts.VeryVerbose, "vv", false, "DEBUG logs")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "append logs to this file")

	// Add subcommands
	cmd.AddCommand(edit)
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewComposeCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewStopCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// loadConfig reads the config and applies the global flag overrides.
func (o *RootOptions) loadConfig() (config.Config, error) {
	var (
		c   config.Config
		err error
	)
	if o.ConfigPath != "" {
		c, err = config.LoadFile(o.Dir, o.ConfigPath)
	} else {
		c, err = config.Load(o.Dir)
	}
	if err != nil {
		return c, WrapExitError(ExitCommandError, "load config", err)
	}
	switch {
	case o.VeryVerbose:
		c.Log.Verbosity = 2
	case o.Verbose && c.Log.Verbosity < 1:
		c.Log.Verbosity = 1
	}
	if o.LogFile != "" {
		c.Log.File = o.LogFile
	}
	return c, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
