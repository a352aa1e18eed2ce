package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"hcj-play/internal/buffer"
	"hcj-play/internal/compose"
)

// NewComposeCommand creates the compose command.
func NewComposeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		out   string
		check bool
	)
	cmd := &cobra.Command{
		Use:           "compose",
		Short:         "Print the composed document for the stored buffers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := readBuffers(rootOpts)
			if err != nil {
				return err
			}
			html := compose.Compose(set)
			if check {
				if got, ok := compose.Regions(html); !ok || got != set {
					return NewExitError(ExitFailure, "a buffer contains a boundary tag; the document does not split back into its buffers")
				}
				printf(cmd, "ok: %d bytes\n", len(html))
				return nil
			}
			if out == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), html)
				return err
			}
			if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
				return WrapExitError(ExitFailure, "write document", err)
			}
			printf(cmd, "Wrote %s (%d bytes)\n", out, len(html))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&check, "check", false, "verify the document splits back into the stored buffers")
	return cmd
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <buffer> [file|-]",
		Short: "Replace a stored buffer from a file or stdin",
		Long: `Replace one stored buffer. <buffer> is markup, style or script (or
html, css, js, index.html, style.css, script.js). Reads stdin when the
file is omitted or "-".`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := buffer.ParseName(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "buffer", err)
			}
			var data []byte
			if len(args) == 1 || args[1] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[1])
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "read input", err)
			}

			c, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			store, slot, err := openStore(c, nil)
			if err != nil {
				return WrapExitError(ExitCommandError, "storage", err)
			}
			defer slot.Close()
			if err := store.SetContent(name, string(data)); err != nil {
				return WrapExitError(ExitFailure, "save", err)
			}
			printf(cmd, "Set %s (%d bytes)\n", name.FileName(), len(data))
			return nil
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <buffer>",
		Short:         "Print a stored buffer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := buffer.ParseName(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "buffer", err)
			}
			set, err := readBuffers(rootOpts)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), set.Get(name))
			return err
		},
	}
}

func readBuffers(opts *RootOptions) (buffer.Set, error) {
	c, err := opts.loadConfig()
	if err != nil {
		return buffer.Set{}, err
	}
	store, slot, err := openStore(c, nil)
	if err != nil {
		return buffer.Set{}, WrapExitError(ExitCommandError, "storage", err)
	}
	defer slot.Close()
	return store.Snapshot(), nil
}

