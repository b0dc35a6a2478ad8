package dataaccess

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/porterbot/porter/pkg/dataaccess/monitoring"
	"github.com/porterbot/porter/pkg/entities"
	"github.com/porterbot/porter/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const settingsDalName = "settings_dal"

// ErrDuplicateType is returned when adding a ticket type whose derived
// value collides with an existing one.
var ErrDuplicateType = errors.New("a ticket type with this name already exists")

// selfWriteWindow is how long after one of our own saves a filesystem
// event on the settings document is ignored.
const selfWriteWindow = time.Second

// SettingsDal is the data access layer for the persisted ticket system
// settings. All access goes through here; the document is rewritten
// wholesale on every mutation.
type SettingsDal interface {
	// Settings returns a snapshot copy of the current settings.
	Settings() entities.Settings

	// SetStaffRoles replaces the configured staff roles.
	SetStaffRoles(ids []string) error

	// SetCategory sets the parent category for ticket channels.
	SetCategory(id string) error

	// SetLogChannel sets the audit log channel.
	SetLogChannel(id string) error

	// AddTicketType derives a value from the label and appends a new
	// ticket type. Returns ErrDuplicateType on a value collision.
	AddTicketType(label, emoji string) (entities.TicketType, error)

	// RemoveTicketType removes the ticket type with the given value.
	// Removing an unknown value is a no-op.
	RemoveTicketType(value string) error

	// Ping reports whether the persisted document is reachable.
	Ping() error

	// Close stops the document watcher.
	Close() error
}

type settingsDal struct {
	// l is the logger.
	l *slog.Logger

	// path is the location of the persisted document.
	path string

	mu      sync.RWMutex
	current *entities.Settings

	// lastWrite is when we last rewrote the document ourselves, used to
	// tell our own saves apart from external edits.
	lastWrite time.Time

	// watcher reloads the document when it is edited on disk.
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSettingsDal opens the settings document at path, creating it with
// defaults if it does not exist. A corrupt document is logged and replaced
// with in-memory defaults without being persisted, so prior content is
// kept on disk until the next explicit save.
func NewSettingsDal(l *slog.Logger, path string) (SettingsDal, error) {
	d := &settingsDal{
		l:    l.With(slog.String(logging.KeyDal, settingsDalName)),
		path: path,
		done: make(chan struct{}),
	}

	d.load()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		d.l.Warn("Could not create settings watcher, external edits will not be picked up",
			slog.String(logging.KeyError, err.Error()))
		return d, nil
	}

	// Watch the directory rather than the file; editors replace files on
	// save, which would drop a file-level watch.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		d.l.Warn("Could not watch settings directory, external edits will not be picked up",
			slog.String(logging.KeyError, err.Error()))
		return d, nil
	}

	d.watcher = w
	go d.watch()
	return d, nil
}

func (d *settingsDal) load() {
	d.mu.Lock()
	defer d.mu.Unlock()

	done := observe("load")
	defer done()

	buf, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		d.current = entities.DefaultSettings()
		if err := d.save(); err != nil {
			d.l.Error("Error persisting default settings", slog.String(logging.KeyError, err.Error()))
		}
		return
	} else if err != nil {
		d.l.Error("Error reading settings document, falling back to defaults",
			slog.String(logging.KeyError, err.Error()))
		d.current = entities.DefaultSettings()
		return
	}

	s := new(entities.Settings)
	if err := json.Unmarshal(buf, s); err != nil {
		// A corrupt document must not crash startup. The broken file is
		// left in place until the next save.
		d.l.Error("Error parsing settings document, falling back to defaults",
			slog.String(logging.KeyError, err.Error()))
		d.current = entities.DefaultSettings()
		return
	}

	s.Normalize()
	d.current = s
}

// save rewrites the whole document. The caller must hold d.mu.
func (d *settingsDal) save() error {
	done := observe("save")
	defer done()

	buf, err := json.MarshalIndent(d.current, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshalling settings: %w", err)
	}

	if err := os.WriteFile(d.path, buf, 0o644); err != nil {
		return fmt.Errorf("error writing settings document: %w", err)
	}

	d.lastWrite = time.Now()
	return nil
}

func (d *settingsDal) watch() {
	for {
		select {
		case <-d.done:
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(d.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			d.mu.RLock()
			self := time.Since(d.lastWrite) < selfWriteWindow
			d.mu.RUnlock()
			if self {
				continue
			}

			d.l.Info("Settings document changed on disk, reloading")
			monitoring.StoreReloads.Inc()
			d.load()
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.l.Warn("Settings watcher error", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func (d *settingsDal) Settings() entities.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()

	done := observe("get_settings")
	defer done()

	return d.current.Clone()
}

func (d *settingsDal) SetStaffRoles(ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	done := observe("set_staff_roles")
	defer done()

	if ids == nil {
		ids = []string{}
	}
	d.current.StaffRoleIDs = ids
	return d.save()
}

func (d *settingsDal) SetCategory(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	done := observe("set_category")
	defer done()

	d.current.CategoryID = id
	return d.save()
}

func (d *settingsDal) SetLogChannel(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	done := observe("set_log_channel")
	defer done()

	d.current.LogChannelID = id
	return d.save()
}

func (d *settingsDal) AddTicketType(label, emoji string) (entities.TicketType, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	done := observe("add_ticket_type")
	defer done()

	t := entities.TicketType{
		Value: entities.DeriveTypeValue(label),
		Label: label,
		Emoji: emoji,
	}

	if d.current.HasTicketType(t.Value) {
		return entities.TicketType{}, ErrDuplicateType
	}

	prev := d.current.TicketTypes
	d.current.TicketTypes = append(d.current.TicketTypes, t)
	if err := d.save(); err != nil {
		// The registry must not diverge from disk on a failed save.
		d.current.TicketTypes = prev
		return entities.TicketType{}, err
	}
	return t, nil
}

func (d *settingsDal) RemoveTicketType(value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	done := observe("remove_ticket_type")
	defer done()

	kept := d.current.TicketTypes[:0:0]
	for _, t := range d.current.TicketTypes {
		if t.Value != value {
			kept = append(kept, t)
		}
	}

	// Nothing removed, nothing to rewrite.
	if len(kept) == len(d.current.TicketTypes) {
		return nil
	}

	if kept == nil {
		kept = []entities.TicketType{}
	}

	prev := d.current.TicketTypes
	d.current.TicketTypes = kept
	if err := d.save(); err != nil {
		// The registry must not diverge from disk on a failed save.
		d.current.TicketTypes = prev
		return err
	}
	return nil
}

func (d *settingsDal) Ping() error {
	done := observe("ping")
	defer done()

	if _, err := os.Stat(d.path); err != nil {
		return fmt.Errorf("settings document unreachable: %w", err)
	}
	return nil
}

func (d *settingsDal) Close() error {
	close(d.done)
	if d.watcher != nil {
		return d.watcher.Close()
	}
	return nil
}

// observe starts the prometheus metrics for one store operation and
// returns the completion func.
func observe(op string) func() {
	monitoring.StoreTotalRequests.WithLabelValues(settingsDalName, op).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(settingsDalName, op))
	return func() { t.ObserveDuration() }
}
