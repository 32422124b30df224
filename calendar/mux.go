package calendar

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/guilherme-santos/localcalendar/internal"
)

// DecodeOptions controls how a payload is turned into events.
type DecodeOptions struct {
	// Location is the zone decoded times are converted to, defaults to
	// time.Local.
	Location *time.Location

	// Window bounds the expansion of recurring events. Recurrences are not
	// expanded when it's zero.
	Window internal.Interval
}

// Codec reads and writes events in an interchange format.
type Codec interface {
	Decode(io.Reader, DecodeOptions) ([]internal.Event, error)
	Encode(io.Writer, []internal.Event) error
}

type Mux struct {
	mu     sync.Mutex
	codecs map[string]Codec
}

func NewMux() *Mux {
	return &Mux{
		codecs: make(map[string]Codec),
	}
}

func (m *Mux) Get(format string) (Codec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	codec, ok := m.codecs[format]
	if !ok {
		return nil, fmt.Errorf("format %q is not implemented", format)
	}
	return codec, nil
}

func (m *Mux) Register(format string, codec Codec) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.codecs[format] = codec
}

// Formats returns the registered format names, sorted.
func (m *Mux) Formats() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	formats := make([]string, 0, len(m.codecs))
	for f := range m.codecs {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}
