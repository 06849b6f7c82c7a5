package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
)

var (
	recordEncMode cbor.EncMode
	recordDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	recordEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create recording CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	recordDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create recording CBOR decoder mode: %v", err))
	}
}

// Record is the on-disk form of one event in a recording.
type Record struct {
	ID         string    `cbor:"1,keyasint"`
	DeviceName string    `cbor:"2,keyasint"`
	DeviceType string    `cbor:"3,keyasint"`
	Command    string    `cbor:"4,keyasint"`
	State      *string   `cbor:"5,keyasint,omitempty"`
	Timestamp  time.Time `cbor:"6,keyasint"`
}

func recordFromEvent(ev *device.Event) Record {
	return Record{
		ID:         ev.ID,
		DeviceName: ev.DeviceName,
		DeviceType: ev.DeviceType,
		Command:    ev.Command.String(),
		State:      ev.Payload,
		Timestamp:  ev.Timestamp,
	}
}

// Event converts the record back to a device.Event.
func (r Record) Event() (device.Event, error) {
	cmd, err := device.ParseCommand(r.Command)
	if err != nil {
		return device.Event{}, err
	}
	return device.Event{
		ID:         r.ID,
		DeviceName: r.DeviceName,
		DeviceType: r.DeviceType,
		Command:    cmd,
		Payload:    r.State,
		Timestamp:  r.Timestamp,
	}, nil
}

// Recorder appends every event to a binary CBOR stream so a session can
// be inspected or replayed later. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
	logger  Logger
}

// NewRecorder opens path for appending, creating it and its directory if
// needed. A record cut short by an earlier crash is dropped first so new
// records stay readable.
func NewRecorder(path string) (*Recorder, error) {
	if path == "" {
		return nil, fmt.Errorf("recorder: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating recording directory: %w", err)
	}
	if err := repairTail(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	return &Recorder{
		path:    path,
		file:    f,
		encoder: recordEncMode.NewEncoder(f),
		logger:  noopLogger{},
	}, nil
}

// repairTail truncates path to the end of its last complete record.
// Anything other than a partial trailing record is reported as corruption.
func repairTail(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	dec := recordDecMode.NewDecoder(f)
	var good int64
	for {
		var raw cbor.RawMessage
		err := dec.Decode(&raw)
		if err == nil {
			good = int64(dec.NumBytesRead())
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("recording corrupt at offset %d: %w", good, err)
		}
		break
	}

	if err := os.Truncate(path, good); err != nil {
		return fmt.Errorf("truncating partial record: %w", err)
	}
	return nil
}

// Path returns the recording file path.
func (r *Recorder) Path() string {
	return r.path
}

// SetLogger sets the logger for encoding failures.
func (r *Recorder) SetLogger(logger Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = orNoop(logger)
}

// Notify implements hub.Observer. Events after Close are dropped.
func (r *Recorder) Notify(ev *device.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if err := r.encoder.Encode(recordFromEvent(ev)); err != nil {
		r.logger.Warn("recording write failed", "path", r.path, "event_id", ev.ID, "error", err)
	}
}

// Close closes the recording. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadRecording decodes every event in a recording, oldest first.
func ReadRecording(path string) ([]device.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	dec := recordDecMode.NewDecoder(f)
	var events []device.Event
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return events, fmt.Errorf("decoding record %d: %w", len(events)+1, err)
		}
		ev, err := rec.Event()
		if err != nil {
			return events, fmt.Errorf("decoding record %d: %w", len(events)+1, err)
		}
		events = append(events, ev)
	}
}

var _ hub.Observer = (*Recorder)(nil)
