// Package watch re-runs a render when its input files change and, optionally,
// on a fixed interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
)

const DefaultDebounce = 500 * time.Millisecond

// Reasons passed to the render function.
const (
	ReasonChange   = "change"
	ReasonInterval = "interval"
)

// RenderFunc performs one render. Errors are logged and do not stop watching.
type RenderFunc func(ctx context.Context, reason string) error

// Watcher serializes renders triggered by file events and the scheduler.
// Renders run on the goroutine calling Run, one at a time.
type Watcher struct {
	files    map[string]struct{}
	render   RenderFunc
	debounce time.Duration
	interval time.Duration
	logger   *slog.Logger
	requests chan string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long file events are coalesced before a render.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInterval renders every d in addition to file events. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New returns a watcher for files. Empty entries are ignored.
func New(render RenderFunc, files []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		render:   render,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		requests: make(chan string, 1),
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve watched file %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.interval < 0 {
		return nil, errors.New("watch interval must not be negative")
	}
	return w, nil
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if cerr := fsw.Close(); cerr != nil {
			w.logger.Warn("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	// Directories are watched instead of the files so editors that replace
	// files on save keep being tracked.
	dirs := map[string]struct{}{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.logger.Warn("Not watching missing directory", logfields.Path(dir))
				continue
			}
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	if w.interval > 0 {
		scheduler, err := w.startScheduler()
		if err != nil {
			return err
		}
		defer func() {
			if serr := scheduler.Shutdown(); serr != nil {
				w.logger.Warn("Error stopping scheduler", logfields.Error(serr))
			}
		}()
	}

	w.logger.Info("Watching for changes",
		slog.Int("files", len(w.files)),
		slog.Duration("interval", w.interval))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		case <-timer.C:
			w.run(ctx, ReasonChange)
		case reason := <-w.requests:
			w.run(ctx, reason)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) startScheduler() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.request, ReasonInterval),
		gocron.WithName("periodic-render"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic render job: %w", err)
	}
	s.Start()
	return s, nil
}

// request queues a render unless one is already pending.
func (w *Watcher) request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}

func (w *Watcher) run(ctx context.Context, reason string) {
	start := time.Now()
	if err := w.render(ctx, reason); err != nil {
		w.logger.Error("Render failed", logfields.Reason(reason), logfields.Error(err))
		return
	}
	w.logger.Info("Rendered",
		logfields.Reason(reason),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
}
