package session

import (
	"errors"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Result is the outcome of one finished game.
type Result struct {
	SessionID ID
	Username  string
	Preset    string
	Score     int
	Level     int
	Ticks     int
}

// Reporter receives each finished game exactly once.
type Reporter interface {
	Report(r Result) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Result) error

// Report calls f(r).
func (f ReporterFunc) Report(r Result) error {
	return f(r)
}

// StoreReporter saves finished games and raises the player's stored
// highest score.
type StoreReporter struct {
	Store *storage.Store
}

// Report implements Reporter.
func (sr StoreReporter) Report(r Result) error {
	_, err := sr.Store.SaveScore(r.Username, r.Preset, r.Score, r.Level)
	if r.Username != "" {
		_, uerr := sr.Store.UpdateHighScore(r.Username, r.Score)
		err = errors.Join(err, uerr)
	}
	return err
}
