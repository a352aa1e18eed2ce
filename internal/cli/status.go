package cli

import (
	"github.com/spf13/cobra"

	"hcj-play/internal/buffer"
	"hcj-play/internal/config"
	"hcj-play/internal/httpx"
	"hcj-play/internal/preview"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "init",
		Short:         "Write a commented default config into the state directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			wrote, err := config.Init(rootOpts.Dir)
			if err != nil {
				return WrapExitError(ExitFailure, "init", err)
			}
			if wrote {
				printf(cmd, "Wrote %s\n", config.Path(rootOpts.Dir))
			} else {
				printf(cmd, "%s already exists; not overwriting\n", config.Path(rootOpts.Dir))
			}
			return nil
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show storage and the running preview, if any",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			path := c.StoragePath()
			if path == "" {
				path = "(in memory)"
			}
			printf(cmd, "Storage:  %s %s key=%s\n", c.Storage.Backend, path, c.Storage.Key)
			printf(cmd, "Run keys: %v\n", c.Editor.RunKeys)
			set, err := readBuffers(rootOpts)
			if err != nil {
				return err
			}
			if set.IsEmpty() {
				printf(cmd, "Buffers:  empty\n")
			} else {
				printf(cmd, "Buffers:  %s %dB, %s %dB, %s %dB\n",
					buffer.Markup.FileName(), len(set.Markup),
					buffer.Style.FileName(), len(set.Style),
					buffer.Script.FileName(), len(set.Script))
			}

			st, ok, err := loadState(c.Dir)
			if err != nil {
				return WrapExitError(ExitFailure, "state", err)
			}
			if !ok {
				printf(cmd, "Preview:  not running\n")
				return nil
			}
			var s preview.Status
			if err := httpx.GetJSON(cmd.Context(), st.URL+"api/status", &s); err != nil {
				printf(cmd, "Preview:  %s (%s, pid %d) not answering: %v\n", st.URL, st.Mode, st.PID, err)
				return nil
			}
			printf(cmd, "Preview:  %s (%s, pid %d, since %s)\n", st.URL, st.Mode, st.PID, st.StartedAt)
			if s.Rev == "" {
				printf(cmd, "Document: none published yet\n")
				return nil
			}
			printf(cmd, "Document: rev %s, %d bytes, %s at %s\n", s.Rev, s.Bytes, s.Reason, s.PublishedAt)
			return nil
		},
	}
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "run",
		Short:         "Ask the running session to compose and publish",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok, err := loadState(rootOpts.Dir)
			if err != nil {
				return WrapExitError(ExitFailure, "state", err)
			}
			if !ok {
				return NewExitError(ExitCommandError, "no running session (start one with edit or serve)")
			}
			if err := httpx.Post(cmd.Context(), st.URL+"run"); err != nil {
				return WrapExitError(ExitFailure, "run", err)
			}
			printf(cmd, "Run requested at %s\n", st.URL)
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printf(cmd, "hcj-play %s\n", rootOpts.Version)
		},
	}
}
