package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hcj-play/internal/buffer"
	"hcj-play/internal/config"
	"hcj-play/internal/logging"
	"hcj-play/internal/preview"
	"hcj-play/internal/trigger"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var flags previewFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preview without the editor",
		Long: `Serve the preview page for the stored buffers without opening the editor.

Each run (the page's Run button or "hcj-play run") reads the buffers
from storage again, so edits made with "hcj-play set" or another editor
session show up on the next run. Stop with Ctrl-C.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, flags, cmd)
		},
	}

	cmd.Flags().IntVar(&flags.Port, "port", 0, "preview port (default from config, 5173)")
	cmd.Flags().BoolVar(&flags.Open, "open", false, "open the preview in a browser")
	cmd.Flags().StringVarP(&flags.Out, "out", "o", "", "also write every published document to this file")

	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, flags previewFlags, cmd *cobra.Command) error {
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

	surface := preview.NewSurface()
	trig := trigger.New(storedBuffers(c, log), publisher(c, surface),
		trigger.OnFire(func(doc preview.Document, err error) {
			if err != nil {
				log.Errorf("run (%s): %v", doc.Reason, err)
				return
			}
			log.Infof("published %s (%s, %d bytes)", doc.Rev, doc.Reason, len(doc.HTML))
		}),
	)

	srv := preview.NewServer(surface,
		preview.WithVersion(opts.Version),
		preview.WithLogf(log.Debugf),
		preview.WithRun(func(ctx context.Context) error {
			_, err := trig.Fire(trigger.Remote)
			return err
		}),
	)
	if _, err := trig.Fire(trigger.Initial); err != nil {
		return WrapExitError(ExitFailure, "initial run", err)
	}
	if err := startServer(c, srv, log); err != nil {
		return WrapExitError(ExitFailure, "preview server", err)
	}
	defer shutdown(srv, log)
	if err := saveState(c.Dir, State{PID: os.Getpid(), Mode: "serve", URL: srv.URL()}); err != nil {
		log.Errorf("state: %v", err)
	}
	defer clearState(c.Dir)

	printf(cmd, "Preview: %s\n", srv.URL())
	if c.Preview.OpenBrowser {
		go openBrowser(srv.URL(), log)
	}

	<-ctx.Done()
	printf(cmd, "\nStopping preview (last rev %s)...\n", trig.LastDocument().Rev)
	return nil
}

// storedBuffers reads the buffers from storage at every fire. A storage
// failure fails the fire so the preview keeps its last document.
func storedBuffers(c config.Config, log *logging.Logger) trigger.Source {
	return trigger.LoadFunc(func() (buffer.Set, error) {
		slot, err := openSlot(c)
		if err != nil {
			return buffer.Set{}, err
		}
		defer slot.Close()
		st := buffer.Open(slot, c.Storage.Key)
		st.Debugf = log.Debugf
		if _, err := st.Reload(); err != nil {
			return buffer.Set{}, err
		}
		return st.Snapshot(), nil
	})
}
