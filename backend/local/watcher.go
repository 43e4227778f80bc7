package local

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/gobeaver/pathkit"
)

// Watch implements pathkit.CanWatch using fsnotify. The returned
// channel closes when ctx is cancelled or the watcher fails.
func (a *Adapter) Watch(ctx context.Context, subPath string) (<-chan pathkit.Event, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(a.resolve(subPath)); err != nil {
		w.Close()
		return nil, wrapErr("watch", subPath, err)
	}

	events := make(chan pathkit.Event)
	go func() {
		defer close(events)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				select {
				case events <- pathkit.Event{Path: ev.Name, Op: uint32(ev.Op)}:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return events, nil
}
