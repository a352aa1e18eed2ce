package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"hcj-play/internal/buffer"
	"hcj-play/internal/config"
	"hcj-play/internal/httpx"
	"hcj-play/internal/launch"
	"hcj-play/internal/logging"
	"hcj-play/internal/ports"
	"hcj-play/internal/preview"
	"hcj-play/internal/storage"
)

// portTries bounds the search for a free preview port above the
// configured one.
const portTries = 20

// previewFlags are shared by edit and serve.
type previewFlags struct {
	Port      int
	Open      bool
	Out       string
	NoServer  bool
	StartMode string
}

func (f previewFlags) apply(c *config.Config, changed func(string) bool) {
	if changed("port") {
		c.Preview.Port = f.Port
	}
	if changed("open") {
		c.Preview.OpenBrowser = f.Open
	}
	if f.Out != "" {
		c.Preview.Out = f.Out
	}
	if f.StartMode != "" {
		c.Editor.StartMode = f.StartMode
	}
}

// openSlot opens the configured storage backend, creating its directory.
func openSlot(c config.Config) (storage.Slot, error) {
	b := storage.Backend(c.Storage.Backend)
	path := c.StoragePath()
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure storage dir: %w", err)
		}
	}
	slot, err := storage.Open(b, path)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", b, err)
	}
	return slot, nil
}

// openStore opens the slot and loads the buffers, falling back to empty
// buffers when the stored snapshot is missing or malformed.
func openStore(c config.Config, log *logging.Logger) (*buffer.Store, storage.Slot, error) {
	slot, err := openSlot(c)
	if err != nil {
		return nil, nil, err
	}
	st := buffer.Open(slot, c.Storage.Key)
	st.Debugf = log.Debugf
	if !st.Initialize() {
		log.Infof("storage: no usable snapshot under %q, starting empty", c.Storage.Key)
	}
	return st, slot, nil
}

// publisher fans documents out to the surface and the optional file sink.
func publisher(c config.Config, surface *preview.Surface) preview.Publisher {
	pubs := preview.Fanout{surface}
	if out := c.OutPath(); out != "" {
		pubs = append(pubs, preview.FileSink{Path: out})
	}
	return pubs
}

// startServer binds the preview server on the configured port or the
// next free one and serves in the background.
func startServer(c config.Config, srv *preview.Server, log *logging.Logger) error {
	port, err := ports.Pick(c.Preview.Addr, c.Preview.Port, portTries)
	if err != nil {
		return fmt.Errorf("pick preview port: %w", err)
	}
	if c.Preview.Port > 0 && port != c.Preview.Port {
		log.Infof("preview: port %d busy, using %d", c.Preview.Port, port)
	}
	if err := srv.Listen(net.JoinHostPort(c.Preview.Addr, strconv.Itoa(port))); err != nil {
		return err
	}
	go func() {
		if err := srv.Serve(); err != nil {
			log.Errorf("preview: %v", err)
		}
	}()
	log.Infof("preview: serving %s", srv.URL())
	return nil
}

// openBrowser waits for the server to answer and opens the page.
func openBrowser(url string, log *logging.Logger) {
	ctx := context.Background()
	if err := httpx.WaitHTTPUp(ctx, url+"healthz", 5*time.Second); err != nil {
		log.Errorf("preview: %v", err)
		return
	}
	if err := launch.Open(url); err != nil {
		log.Errorf("%v", err)
	}
}

func shutdown(srv *preview.Server, log *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("preview: shutdown: %v", err)
	}
}
