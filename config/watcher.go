package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the config file and any extra inputs (the persisted IR,
// template overrides) and calls back with the current config after a change
type Watcher struct {
	configPath string
	files      map[string]bool
	watcher    *fsnotify.Watcher
	callbacks  []ReloadCallback
	current    *Config
	mu         sync.RWMutex

	debounceTimer  *time.Timer
	debouncePeriod time.Duration

	isOwnWrite      bool // set by Save to prevent reload loops
	isOwnWriteMutex sync.Mutex
	done            chan struct{}
}

// ReloadCallback is called after a change with the config in effect and
// the path that triggered it
type ReloadCallback func(cfg *Config, changed string) error

// globalWatcher is marked by Save so its own writes don't trigger reloads
var (
	globalWatcher   *Watcher
	globalWatcherMu sync.Mutex
)

// NewWatcher watches cfg.Path (when set) and extra. Parent directories are
// watched so editors that replace files on save are still seen.
func NewWatcher(cfg *Config, extra ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		configPath:     cleanPath(cfg.Path),
		files:          map[string]bool{},
		watcher:        fw,
		current:        cfg,
		debouncePeriod: DefaultDebounce,
		done:           make(chan struct{}),
	}
	dirs := map[string]bool{}
	for _, p := range append([]string{cfg.Path}, extra...) {
		if p == "" {
			continue
		}
		p = cleanPath(p)
		w.files[p] = true
		dirs[filepath.Dir(p)] = true
	}
	if len(w.files) == 0 {
		fw.Close()
		return nil, errors.New("nothing to watch")
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// SetDebounce changes the debounce period; call before Start
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

// OnReload registers a callback
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Config returns the config currently in effect
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// MarkOwnWrite marks the next write as coming from us
func (w *Watcher) MarkOwnWrite() {
	w.isOwnWriteMutex.Lock()
	defer w.isOwnWriteMutex.Unlock()
	w.isOwnWrite = true
}

func (w *Watcher) checkOwnWrite() bool {
	w.isOwnWriteMutex.Lock()
	defer w.isOwnWriteMutex.Unlock()
	if w.isOwnWrite {
		w.isOwnWrite = false
		return true
	}
	return false
}

// Start begins watching in a background goroutine
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Done is closed once the watch loop exits
func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := cleanPath(event.Name)
			if !w.files[name] || isBackupFile(name) {
				continue
			}
			if name == w.configPath && w.checkOwnWrite() {
				logger.Debugw("Config watcher ignoring own write", logger.FieldFile, name)
				continue
			}
			logger.Infow("Watcher detected change", logger.FieldFile, name, "op", event.Op.String())
			w.scheduleReload(name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Config watcher error", logger.FieldError, err)
		}
	}
}

// scheduleReload debounces rapid changes and triggers reload
func (w *Watcher) scheduleReload(changed string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.reload(changed); err != nil {
			logger.Errorw("Reload failed", logger.FieldPath, changed, logger.FieldError, err)
		}
	})
}

// reload re-reads the config when it changed, then calls every callback.
// An invalid config keeps the previous one in effect.
func (w *Watcher) reload(changed string) error {
	if changed == w.configPath {
		cfg, err := LoadFromFile(w.configPath)
		if err != nil {
			return err
		}
		w.mu.Lock()
		w.current = cfg
		w.mu.Unlock()
		logger.Infow("Config reloaded successfully", logger.FieldPath, w.configPath)
	}

	w.mu.RLock()
	cfg := w.current
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(cfg, changed); err != nil {
			logger.Warnw("Reload callback error", logger.FieldError, err)
		}
	}
	return nil
}

// Stop stops watching
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// isBackupFile checks for the rotating backups written by Save
func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back") && len(ext) == len(".back1")
}

// SetGlobalWatcher sets the watcher Save marks before writing
func SetGlobalWatcher(w *Watcher) {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	globalWatcher = w
}

// GetGlobalWatcher returns the global watcher instance
func GetGlobalWatcher() *Watcher {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	return globalWatcher
}
