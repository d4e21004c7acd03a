package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/xnagfx/engine/core"
)

/**
 * @brief Reloads a configuration file whenever it is written or replaced.
 *
 * The parent directory is watched rather than the file so that editors which
 * save through a rename keep being picked up. A file that fails to load is
 * reported on Errors and the previous configuration stays in effect.
 */
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher

	configs chan *Config
	errors  chan error
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsnotify: fsWatch,
		configs:  make(chan *Config),
		errors:   make(chan error),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Configs delivers every successfully reloaded configuration.
func (w *Watcher) Configs() <-chan *Config {
	return w.configs
}

func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) Close() error {
	w.once.Do(func() {
		close(w.done)
	})
	w.wg.Wait()
	return nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	defer func() {
		w.fsnotify.Close()
		close(w.configs)
		close(w.errors)
	}()

	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				core.LogError("config reload: %s", err)
				if !w.send(nil, err) {
					return
				}
				continue
			}
			core.LogDebug("config %s reloaded", w.path)
			if !w.send(cfg, nil) {
				return
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())
			if !w.send(nil, err) {
				return
			}

		case <-w.done:
			return
		}
	}
}

// send blocks until the value is taken or the watcher is closed.
func (w *Watcher) send(cfg *Config, err error) bool {
	if err != nil {
		select {
		case w.errors <- err:
			return true
		case <-w.done:
			return false
		}
	}
	select {
	case w.configs <- cfg:
		return true
	case <-w.done:
		return false
	}
}
