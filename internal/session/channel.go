package session

import (
	"sync"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// ChannelPresenter is a snake.Presenter that hands snapshots to another
// goroutine, such as a WebSocket writer. It never blocks the engine.
type ChannelPresenter struct {
	snapshots chan snake.Snapshot
	done      chan struct{}
	doneOnce  sync.Once
}

// NewChannelPresenter creates a presenter with the given buffer size.
func NewChannelPresenter(bufferSize int) *ChannelPresenter {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &ChannelPresenter{
		snapshots: make(chan snake.Snapshot, bufferSize),
		done:      make(chan struct{}),
	}
}

// Present queues a snapshot.
// If the buffer is full, the oldest snapshot is dropped: only the newest
// frame matters to a slow reader.
func (p *ChannelPresenter) Present(snap snake.Snapshot) {
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.snapshots <- snap:
	default:
		select {
		case <-p.snapshots:
		default:
		}
		// Best effort
		select {
		case p.snapshots <- snap:
		default:
		}
	}
}

// Snapshots returns the channel to receive snapshots from.
func (p *ChannelPresenter) Snapshots() <-chan snake.Snapshot {
	return p.snapshots
}

// Done returns a channel that closes when the presenter is closed.
func (p *ChannelPresenter) Done() <-chan struct{} {
	return p.done
}

// Close stops accepting snapshots. Safe to call multiple times.
func (p *ChannelPresenter) Close() {
	p.doneOnce.Do(func() {
		close(p.done)
	})
}
