package config

import (
	"github.com/fsnotify/fsnotify"
)

// ChangeFunc receives the result of reloading after the config file changed.
// On error the previous configuration stays current.
type ChangeFunc func(cfg Config, err error)

// Watch reloads the configuration whenever the config file changes and
// passes the result to onChange. It does nothing when no file was read.
//
// The file watcher cannot be stopped and lives as long as the process.
// Settings captured at construction, such as network limits, keep their
// original values; onChange decides what can be applied live.
func (l *Loader) Watch(onChange ChangeFunc) bool {
	if l.v.ConfigFileUsed() == "" {
		return false
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.refresh()
		if onChange != nil {
			onChange(cfg, err)
		}
	})
	l.v.WatchConfig()
	return true
}
