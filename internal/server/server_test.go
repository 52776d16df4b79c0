package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TylerFlar/tylerflar.github.io/internal/builder"
)

func newTestSite(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blog"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>home</body></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blog", "index.html"), []byte("<html><body>blog</body></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0644))

	hub := newHub()
	srv := httptest.NewServer(newMux(hub, dir))
	t.Cleanup(srv.Close)
	return hub, srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestLiveReloadInjection(t *testing.T) {
	_, srv := newTestSite(t)

	t.Run("html pages get the script", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/blog/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "blog")
		assert.Contains(t, body, "new WebSocket")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "</body></html>"))
		assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))
	})

	t.Run("assets pass through untouched", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/style.css")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "body{}", body)
	})

	t.Run("missing pages keep their status", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/nope/")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.NotContains(t, body, "new WebSocket")
	})
}

func TestHubBroadcast(t *testing.T) {
	hub, srv := newTestSite(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.size() == 1 }, time.Second, 10*time.Millisecond)

	hub.broadcastMessage([]byte("reload"))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))

	conn.Close()
	assert.Eventually(t, func() bool { return hub.size() == 0 }, time.Second, 10*time.Millisecond)
}

func TestSerializedBuildsNeverOverlap(t *testing.T) {
	var active, peak, calls int32
	build := serialized(func(builder.BuildOptions) error {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		atomic.AddInt32(&calls, 1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, build(builder.BuildOptions{}))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(8), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "src/index.md", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "src/new.md", Op: fsnotify.Create}))
	assert.False(t, relevant(fsnotify.Event{Name: "src/index.md", Op: fsnotify.Chmod}))
	assert.False(t, relevant(fsnotify.Event{Name: "src/index.md~", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "src/.index.md.swp", Op: fsnotify.Write}))
}

func TestWatchPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "blog"), 0755))
	cfgFile := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("title: x\n"), 0644))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, watchPaths(watcher, []string{filepath.Join(dir, "src"), cfgFile, filepath.Join(dir, "missing")}))
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "src"),
		filepath.Join(dir, "src", "blog"),
		dir,
	}, watcher.WatchList())
}
