package device

import (
	"fmt"
	"strings"
)

// Command is a symbolic request interpreted by each device variant.
type Command uint8

// Commands understood by the hub. Acceptance is decided per variant.
const (
	TurnOn Command = iota + 1
	TurnOff
	Lock
	Unlock
	SetTemp
)

var commandNames = map[Command]string{
	TurnOn:  "TurnOn",
	TurnOff: "TurnOff",
	Lock:    "Lock",
	Unlock:  "Unlock",
	SetTemp: "SetTemp",
}

var commandVerbs = map[Command]string{
	TurnOn:  "turn_on",
	TurnOff: "turn_off",
	Lock:    "lock",
	Unlock:  "unlock",
	SetTemp: "set_temp",
}

// Commands returns every command in declaration order.
func Commands() []Command {
	return []Command{TurnOn, TurnOff, Lock, Unlock, SetTemp}
}

// String returns the canonical command name (e.g. "TurnOn").
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

// Verb returns the shell verb for the command (e.g. "turn_on").
func (c Command) Verb() string {
	return commandVerbs[c]
}

// Valid reports whether c is one of the declared commands.
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

// ParseCommand accepts either the canonical name or the shell verb,
// ignoring case.
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(s)
	for _, c := range Commands() {
		if strings.EqualFold(s, commandNames[c]) || strings.EqualFold(s, commandVerbs[c]) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Command) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Command) UnmarshalText(text []byte) error {
	parsed, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
