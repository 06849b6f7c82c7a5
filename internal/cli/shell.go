package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
	"github.com/nerrad567/pulsehome-core/internal/sink"
)

// Prompt is shown before every interactive line.
const Prompt = "pulsehome> "

const (
	historyLimit   = 20
	historyTimeout = 5 * time.Second
)

// Logger defines the logging interface used by the shell.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// HistoryReader returns journal entries for a device, newest first.
// *sink.Journal satisfies it.
type HistoryReader interface {
	History(ctx context.Context, deviceName string, limit int) ([]sink.JournalEntry, error)
}

// Shell parses command lines and drives a hub.
type Shell struct {
	hub    *hub.Hub
	out    io.Writer
	errOut io.Writer
	rl     *readline.Instance
	logger Logger

	closeOnce sync.Once
	closeErr  error

	journal       HistoryReader
	recordingPath string
	defaultTemp   int
}

// New creates a shell writing results to out and problems to errOut.
// Use Execute to feed it lines.
func New(h *hub.Hub, out, errOut io.Writer) *Shell {
	return &Shell{
		hub:         h,
		out:         out,
		errOut:      errOut,
		logger:      noopLogger{},
		defaultTemp: device.DefaultTemperature,
	}
}

// NewInteractive creates a shell that reads from the terminal with line
// editing. Its Stdout and Stderr should be used for anything else that
// prints while the prompt is shown.
func NewInteractive(h *hub.Hub) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := New(h, rl.Stdout(), rl.Stderr())
	s.rl = rl
	return s, nil
}

// Stdout returns the writer for normal output.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Stderr returns the writer for error output.
func (s *Shell) Stderr() io.Writer {
	return s.errOut
}

// SetLogger sets the logger for the shell.
func (s *Shell) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
}

// SetJournal enables the history command.
func (s *Shell) SetJournal(j HistoryReader) {
	s.journal = j
}

// SetRecordingPath enables the replay command.
func (s *Shell) SetRecordingPath(path string) {
	s.recordingPath = path
}

// SetDefaultTemperature sets the starting temperature of thermostats
// added without an initial value.
func (s *Shell) SetDefaultTemperature(t int) {
	s.defaultTemp = t
}

// Run reads lines until exit, EOF or ctx is cancelled.
// Ctrl-C clears the current line.
func (s *Shell) Run(ctx context.Context) error {
	if s.rl == nil {
		return errors.New("shell is not interactive")
	}
	defer s.Close()

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	fmt.Fprintln(s.out, "Welcome to PulseHome Smart Home CLI!")
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				fmt.Fprintln(s.out, "Exiting CLI. Goodbye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if !s.Execute(line) {
			return nil
		}
	}
}

// Close releases the terminal. It is safe to call more than once and on a
// shell without a terminal.
func (s *Shell) Close() error {
	s.closeOnce.Do(func() {
		if s.rl != nil {
			s.closeErr = s.rl.Close()
		}
	})
	return s.closeErr
}

// Execute processes one command line. It returns false when the line asks
// the shell to exit.
func (s *Shell) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fmt.Fprintln(s.out, "Empty command")
		return true
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]
	s.logger.Debug("shell command", "verb", verb, "args", len(args))

	switch verb {
	case "add":
		s.cmdAdd(args)
	case "turn_on", "turn_off", "lock", "unlock":
		s.cmdSwitch(verb, args)
	case "set_temp":
		s.cmdSetTemp(args)
	case "list":
		s.cmdList()
	case "status":
		s.cmdStatus()
	case "history":
		s.cmdHistory(args)
	case "replay":
		s.cmdReplay()
	case "stats":
		s.cmdStats()
	case "help", "?":
		s.printHelp()
	case "exit", "quit":
		fmt.Fprintln(s.out, "Exiting CLI. Goodbye!")
		return false
	default:
		fmt.Fprintf(s.errOut, "Unknown command '%s'\n", verb)
	}
	return true
}

func (s *Shell) cmdAdd(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.errOut, "Usage: add <device_type> <device_name> [initial_value]")
		return
	}

	typeArg := args[0]
	kind, err := device.ParseKind(typeArg)
	if err != nil {
		fmt.Fprintf(s.errOut, "Unknown device type '%s'\n", typeArg)
		return
	}

	nameParts := args[1:]
	temp := s.defaultTemp
	if kind == device.KindThermostat && len(nameParts) > 1 {
		if n, err := strconv.Atoi(nameParts[len(nameParts)-1]); err == nil {
			temp = n
			nameParts = nameParts[:len(nameParts)-1]
		}
	}
	name := strings.Join(nameParts, " ")

	if s.hub.HasDevice(name) {
		fmt.Fprintf(s.errOut, "Warning: a device named '%s' already exists; commands will reach the first one\n", name)
	}

	dev, err := device.New(kind, name, temp)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	s.hub.RegisterDevice(dev)
	fmt.Fprintf(s.out, "Device '%s' of type '%s' added.\n", name, typeArg)
}

func (s *Shell) cmdSwitch(verb string, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.errOut, "Usage: %s <device_name>\n", verb)
		return
	}

	cmd, err := device.ParseCommand(verb)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}

	name := strings.Join(args, " ")
	ev, err := s.hub.Execute(name, cmd)
	if err != nil {
		s.printExecuteError(name, err)
		return
	}
	fmt.Fprintf(s.out, "Executed command: %s on '%s'. New state: %s\n", verb, name, ev.State())
}

// cmdSetTemp validates the trailing number but does not use it: a
// thermostat always steps up by one degree.
func (s *Shell) cmdSetTemp(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.errOut, "Usage: set_temp <device_name> <temperature>")
		return
	}

	tempArg := args[len(args)-1]
	if _, err := strconv.Atoi(tempArg); err != nil {
		fmt.Fprintf(s.errOut, "Invalid temperature '%s'\n", tempArg)
		return
	}

	name := strings.Join(args[:len(args)-1], " ")
	ev, err := s.hub.Execute(name, device.SetTemp)
	if err != nil {
		s.printExecuteError(name, err)
		return
	}
	fmt.Fprintf(s.out, "Set temperature for '%s' to %s\n", name, ev.State())
}

func (s *Shell) printExecuteError(name string, err error) {
	if errors.Is(err, hub.ErrDeviceNotFound) {
		fmt.Fprintf(s.errOut, "Error: Device '%s' not found\n", name)
		return
	}
	fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

func (s *Shell) cmdList() {
	names := s.hub.DeviceNames()
	if len(names) == 0 {
		fmt.Fprintln(s.out, "No devices registered.")
		return
	}

	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	fmt.Fprintf(s.out, "Registered devices: [%s]\n", strings.Join(quoted, ", "))
}

func (s *Shell) cmdStatus() {
	devices := s.hub.Describe()
	if len(devices) == 0 {
		fmt.Fprintln(s.out, "No devices registered.")
		return
	}

	width := 0
	for _, d := range devices {
		width = max(width, len(d.Name))
	}
	for _, d := range devices {
		fmt.Fprintf(s.out, "  %-*s  %-10s  %s\n", width, d.Name, d.Type, d.State)
	}
}

func (s *Shell) cmdHistory(args []string) {
	if s.journal == nil {
		fmt.Fprintln(s.errOut, "History unavailable: the journal sink is disabled")
		return
	}
	if len(args) == 0 {
		fmt.Fprintln(s.errOut, "Usage: history <device_name>")
		return
	}

	name := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	entries, err := s.journal.History(ctx, name, historyLimit)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintf(s.out, "No history for '%s'.\n", name)
		return
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "  %s  %-8s  %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Command, e.State)
	}
}

func (s *Shell) cmdReplay() {
	if s.recordingPath == "" {
		fmt.Fprintln(s.errOut, "Replay unavailable: the recorder sink is disabled")
		return
	}

	events, err := sink.ReadRecording(s.recordingPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(s.out, "No events recorded.")
			return
		}
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		// Print whatever decoded before the bad record.
	}
	if len(events) == 0 && err == nil {
		fmt.Fprintln(s.out, "No events recorded.")
		return
	}
	for _, ev := range events {
		fmt.Fprintf(s.out, "  %s  %-8s  %s\n", ev.Timestamp.Local().Format(time.DateTime), ev.Command, sink.FormatLine(&ev))
	}
}

func (s *Shell) cmdStats() {
	stats, err := s.hub.Metrics().Stats()
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(s.out, stats.String())
	commands := make([]string, 0, len(stats.ByCommand))
	for c := range stats.ByCommand {
		commands = append(commands, c)
	}
	sort.Strings(commands)
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %-8s %d\n", c, stats.ByCommand[c])
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Available commands:
  add <device_type> <device_name> [initial_value] - Add a new device
     device_type: light | thermostat | doorlock
  turn_on <device_name>           - Turn on a light
  turn_off <device_name>          - Turn off a light
  lock <device_name>              - Lock a door
  unlock <device_name>            - Unlock a door
  set_temp <device_name> <value>  - Raise a thermostat by one degree
  list                            - List all registered devices
  status                          - Show every device with its state
  history <device_name>           - Show journaled events for a device
  replay                          - Show recorded events
  stats                           - Show command counters
  help                            - Show this help message
  exit                            - Exit the CLI
`)
}
