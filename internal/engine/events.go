package engine

import "time"

// Status captures the state of one file in a run.
type Status string

const (
	// StatusWorking indicates the file is being read and fixed.
	StatusWorking Status = "working"
	// StatusChanged indicates at least one rule changed the file.
	StatusChanged Status = "changed"
	// StatusClean indicates the file already complied.
	StatusClean Status = "clean"
	// StatusCached indicates the cache vouched for the file.
	StatusCached Status = "cached"
	// StatusError indicates the file could not be processed.
	StatusError Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File    string
	Status  Status
	Applied []string
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
