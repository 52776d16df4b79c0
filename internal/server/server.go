// internal/server/server.go
package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TylerFlar/tylerflar.github.io/internal/builder"
)

// Options describes what the dev server builds, watches and serves.
type Options struct {
	Port int
	// OutputDir is served as the site root.
	OutputDir string
	// WatchPaths are directories watched recursively, or files whose
	// parent directory is watched.
	WatchPaths []string
}

// Run performs an initial clean build, then serves OutputDir while
// rebuilding on every change under WatchPaths.
func Run(serveOpts Options, buildFunc func(builder.BuildOptions) error, opts builder.BuildOptions) error {
	opts.CleanDestination = true
	if err := buildFunc(opts); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchPaths(watcher, serveOpts.WatchPaths); err != nil {
		return err
	}

	opts.CleanDestination = false
	go watchForChanges(watcher, hub, serialized(buildFunc), opts)

	addr := fmt.Sprintf(":%d", serveOpts.Port)
	fmt.Printf("Serving site on http://localhost%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	return http.ListenAndServe(addr, newMux(hub, serveOpts.OutputDir))
}

// newMux routes the live-reload socket and the static site.
func newMux(hub *Hub, outputDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	fileServer := http.FileServer(http.Dir(outputDir))
	mux.Handle("/", liveReloadWrapper(fileServer))
	return mux
}

// watchPaths adds every directory below the given paths to the watcher.
// Files are watched through their parent directory, which also catches
// editors that save by swapping files.
func watchPaths(watcher *fsnotify.Watcher, paths []string) error {
	watchedDirs := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				log.Printf("Error adding watch on %s: %v", dir, err)
			} else {
				fmt.Printf("Watching directory: %s\n", dir)
				watchedDirs[dir] = true
			}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", path, err)
		}

		if info.IsDir() {
			if err := filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					addWatch(walkPath)
				}
				return nil
			}); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", path, err)
			}
		} else {
			addWatch(filepath.Dir(path))
		}
	}
	return nil
}

// watchForChanges rebuilds once a burst of file events has settled and
// tells connected browsers to reload. New directories join the watch.
func watchForChanges(watcher *fsnotify.Watcher, hub *Hub, buildFunc func(builder.BuildOptions) error, opts builder.BuildOptions) {
	const debounceDuration = 500 * time.Millisecond
	var rebuild *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					log.Printf("Error adding watch on %s: %v", event.Name, err)
				}
			}
			log.Printf("Change detected in %s", event.Name)
			if rebuild != nil {
				rebuild.Stop()
			}
			rebuild = time.AfterFunc(debounceDuration, func() {
				if err := buildFunc(opts); err != nil {
					log.Printf("Error rebuilding site: %v", err)
					return
				}
				log.Println("Site rebuilt successfully. Triggering reload...")
				hub.broadcastMessage([]byte("reload"))
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// serialized wraps buildFunc so at most one build runs at a time. A
// debounced rebuild that fires while another is still writing waits for it.
func serialized(buildFunc func(builder.BuildOptions) error) func(builder.BuildOptions) error {
	var mu sync.Mutex
	return func(opts builder.BuildOptions) error {
		mu.Lock()
		defer mu.Unlock()
		return buildFunc(opts)
	}
}

// relevant filters out chmod noise and editor swap files.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasSuffix(base, "~") && !strings.HasSuffix(base, ".swp") && !strings.HasPrefix(base, ".#")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// liveReloadWrapper disables caching and injects the reload script into
// HTML pages just before </body>.
func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if !strings.HasSuffix(r.URL.Path, ".html") && !strings.HasSuffix(r.URL.Path, "/") {
			next.ServeHTTP(w, r)
			return
		}

		rec := newBufferedResponse()
		next.ServeHTTP(rec, r)

		for key, values := range rec.header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		body := rec.body.Bytes()
		if rec.status == http.StatusOK {
			body = bytes.Replace(body, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(body)))
		w.WriteHeader(rec.status)
		w.Write(body)
	})
}

// bufferedResponse holds a handler's response so it can be rewritten.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header         { return b.header }
func (b *bufferedResponse) Write(p []byte) (int, error) { return b.body.Write(p) }
func (b *bufferedResponse) WriteHeader(status int)      { b.status = status }

const liveReloadScript = `<script>
(function() {
  var socket = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  socket.onmessage = function(event) {
    if (event.data === "reload") {
      location.reload();
    }
  };
  socket.onerror = function() {
    console.error("Live reload connection lost. Restart 'sitegen serve'.");
  };
})();
</script>
`
