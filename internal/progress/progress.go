// Package progress defines the event vocabulary shared between the
// pipeline and its consumers, plus the server-sent-events transport. Per
// run the stream is: connected, then theater/date/movie events in
// processing order, terminated by exactly one complete or error event.
package progress

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Event is one progress message. Type is always set; the remaining
// fields depend on it.
type Event struct {
	Type     string `json:"type"`
	Theater  string `json:"theater,omitempty"`
	Location string `json:"location,omitempty"`
	Date     string `json:"date,omitempty"`
	Title    string `json:"title,omitempty"`
	Showtime string `json:"showtime,omitempty"`
	Count    *int   `json:"count,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Connected is sent once when a stream opens.
func Connected() Event {
	return Event{Type: "connected"}
}

// TheaterStarted is sent before a theater's first date.
func TheaterStarted(name, location string) Event {
	return Event{Type: "theater", Theater: name, Location: location}
}

// DateStarted is sent before a (theater, date) slot is fetched.
func DateStarted(date, theater string) Event {
	return Event{Type: "date", Date: date, Theater: theater}
}

// MovieFound is sent for each accepted showing.
func MovieFound(title, showtime, theater, date string) Event {
	return Event{Type: "movie", Title: title, Showtime: showtime, Theater: theater, Date: date}
}

// Completed terminates a successful run with the insert count.
func Completed(count int) Event {
	return Event{Type: "complete", Count: &count}
}

// Failed terminates a run in place of Completed.
func Failed(message string) Event {
	return Event{Type: "error", Message: message}
}

// Emitter receives events in order. An error return means the consumer is
// gone; the producer stops emitting but may finish its run.
type Emitter interface {
	Emit(Event) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Event) error

func (f EmitterFunc) Emit(ev Event) error { return f(ev) }

// SSE writes events as server-sent-event frames, flushing after each one.
type SSE struct {
	w http.ResponseWriter
	f http.Flusher
}

// NewSSE prepares w for an event stream and returns the emitter, or false
// when the ResponseWriter cannot stream.
func NewSSE(w http.ResponseWriter) (*SSE, bool) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &SSE{w: w, f: f}, true
}

// Emit implements Emitter.
func (s *SSE) Emit(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	s.f.Flush()
	return nil
}
