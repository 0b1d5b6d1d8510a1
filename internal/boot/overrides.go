package boot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"
	"uk.co.dudmesh.multisig/internal/model"
)

// Overrides is the YAML file that may change message retention settings on a
// running server, e.g.
//
//	retention_duration: 72h
//	acceptance_window: 12h
type Overrides struct {
	RetentionDuration *time.Duration `yaml:"retention_duration"`
	AcceptanceWindow  *time.Duration `yaml:"acceptance_window"`
}

func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	overrides := &Overrides{}
	if err := yaml.Unmarshal(data, overrides); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if overrides.RetentionDuration != nil && *overrides.RetentionDuration <= 0 {
		return nil, fmt.Errorf("retention_duration must be positive, got %s", *overrides.RetentionDuration)
	}
	if overrides.AcceptanceWindow != nil && *overrides.AcceptanceWindow < 0 {
		return nil, fmt.Errorf("acceptance_window must not be negative, got %s", *overrides.AcceptanceWindow)
	}
	return overrides, nil
}

func (o *Overrides) ApplyTo(config *Config) {
	if o.RetentionDuration != nil {
		config.Retention.Duration = *o.RetentionDuration
	}
	if o.AcceptanceWindow != nil {
		config.Retention.AcceptanceWindow = *o.AcceptanceWindow
	}
}

// Apply returns settings with the overridden values replaced.
func (o *Overrides) Apply(settings model.Settings) model.Settings {
	if o.RetentionDuration != nil {
		settings.RetentionDuration = *o.RetentionDuration
	}
	if o.AcceptanceWindow != nil {
		settings.AcceptanceWindow = *o.AcceptanceWindow
	}
	return settings
}

type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch calls onChange with freshly parsed overrides whenever path is written
// or replaced. Files that fail to parse are logged and ignored.
func Watch(path string, onChange func(*Overrides)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	path = filepath.Clean(path)
	w := &Watcher{watcher: watcher, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				log.Infof("config file changed: %s", event.Name)
				overrides, err := LoadOverrides(path)
				if err != nil {
					log.Errorf("reloading config: %+v", err)
					continue
				}
				onChange(overrides)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("watcher: %+v", err)
			}
		}
	}()

	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	return w, nil
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
