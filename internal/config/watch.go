package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk. Reloaded configs arrive on Updates; read or parse
// failures arrive on Errors. Only the latest config is kept if the reader falls behind.
type Watcher struct {
	fs      *fsnotify.Watcher
	path    string
	updates chan Config
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. The parent directory is watched so editors that replace the file are seen.
func Watch(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch: %w", err)
	}
	path = filepath.Clean(path)
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("config: watch: %w", err)
	}
	w := &Watcher{
		fs:      fw,
		path:    path,
		updates: make(chan Config, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			c, err := Load(w.path)
			if err != nil {
				w.sendErr(err)
				continue
			}
			w.send(c)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.sendErr(fmt.Errorf("config: watch: %w", err))
		}
	}
}

func (w *Watcher) send(c Config) {
	for {
		select {
		case w.updates <- c:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

// Updates delivers reloaded configs.
func (w *Watcher) Updates() <-chan Config {
	return w.updates
}

// Errors delivers reload failures.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}
