package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"hcj-play/internal/logging"
	"hcj-play/internal/preview"
	"hcj-play/internal/trigger"
	"hcj-play/internal/tui"
	"hcj-play/internal/tui/state"
)

// NewEditCommand creates the edit command, the default action.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var flags previewFlags
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the three-buffer editor with a live browser preview",
		Long: `Open the terminal editor on index.html, style.css and script.js.

The run key (ctrl+s by default) composes the buffers into one page and
publishes it to the preview server; the browser tab reloads wholesale.
Edits are saved on every change.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(rootOpts, flags, cmd)
		},
	}

	cmd.Flags().IntVar(&flags.Port, "port", 0, "preview port (default from config, 5173)")
	cmd.Flags().BoolVar(&flags.Open, "open", false, "open the preview in a browser")
	cmd.Flags().StringVarP(&flags.Out, "out", "o", "", "also write every published document to this file")
	cmd.Flags().BoolVar(&flags.NoServer, "no-server", false, "do not start the preview server")
	cmd.Flags().StringVar(&flags.StartMode, "mode", "", "start mode: insert or cmd")

	return cmd
}

func runEdit(opts *RootOptions, flags previewFlags, cmd *cobra.Command) error {
	c, err := opts.loadConfig()
	if err != nil {
		return err
	}
	flags.apply(&c, cmd.Flags().Changed)
	if err := c.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "flags", err)
	}

	log, err := logging.Open(c.LogPath(), c.Log.Verbosity, opts.Version)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	defer log.Close()

	store, slot, err := openStore(c, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "storage", err)
	}
	defer slot.Close()

	surface := preview.NewSurface()
	trig := trigger.New(store, publisher(c, surface), trigger.WithKeys(c.Editor.RunKeys...))

	events := make(chan string, 64)
	// The program is created after the server has a URL; requests that
	// arrive before then are refused.
	var program atomic.Pointer[tea.Program]
	done := make(chan struct{})
	var srv *preview.Server
	if !flags.NoServer {
		srv = preview.NewServer(surface,
			preview.WithVersion(opts.Version),
			preview.WithLogf(func(format string, args ...any) {
				line := fmt.Sprintf(format, args...)
				log.Debugf("%s", line)
				select {
				case events <- line:
				default:
				}
			}),
			preview.WithRun(func(ctx context.Context) error {
				return requestRun(ctx, program.Load(), done)
			}),
		)
		if err := startServer(c, srv, log); err != nil {
			return WrapExitError(ExitFailure, "preview server", err)
		}
		defer shutdown(srv, log)
		if err := saveState(c.Dir, State{PID: os.Getpid(), Mode: "edit", URL: srv.URL()}); err != nil {
			log.Errorf("state: %v", err)
		}
		defer clearState(c.Dir)
	}

	url := ""
	if srv != nil {
		url = srv.URL()
	}
	model := tui.New(tui.Options{
		Store:      store,
		Trigger:    trig,
		PreviewURL: url,
		TabSize:    c.Editor.TabSize,
		StartMode:  state.ParseMode(c.Editor.StartMode),
		Logger:     log,
		Events:     events,
	})
	p := tui.NewProgram(model)
	program.Store(p)

	if srv != nil && c.Preview.OpenBrowser {
		go openBrowser(url, log)
	}

	_, err = p.Run()
	close(done)
	if err != nil {
		return WrapExitError(ExitFailure, "editor", err)
	}
	if url != "" {
		printf(cmd, "preview was at %s\n", url)
	}
	return nil
}

var errEditorNotRunning = errors.New("editor not running")

// requestRun hands a run to the editor loop and waits for its answer.
// done is closed once the loop has exited; p.Send does not deliver after
// that, so no reply would ever come.
func requestRun(ctx context.Context, p *tea.Program, done <-chan struct{}) error {
	if p == nil {
		return errEditorNotRunning
	}
	select {
	case <-done:
		return errEditorNotRunning
	default:
	}
	req, reply := tui.NewRunRequest()
	go p.Send(req)
	select {
	case err := <-reply:
		return err
	case <-done:
		return errEditorNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}
