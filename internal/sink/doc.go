// Package sink provides the hub observers that react to device events.
//
// Every sink implements hub.Observer. A sink never reports failure to the
// hub: write errors are handled locally (printed to an error stream and/or
// logged) and the command that produced the event still succeeds.
//
//	┌───────────┬──────────────────────────────────────────────────────┐
//	│ Sink      │ Effect per event                                     │
//	├───────────┼──────────────────────────────────────────────────────┤
//	│ Display   │ one console line                                     │
//	│ LogFile   │ one appended line in a text file                     │
//	│ Journal   │ one row in the SQLite event_journal table            │
//	│ MQTT      │ JSON publish on pulsehome/device/<key>/event         │
//	│ Influx    │ one device_events point                              │
//	│ Redis     │ JSON pub/sub message plus a cached latest state      │
//	│ Recorder  │ one CBOR record appended to a recording file         │
//	└───────────┴──────────────────────────────────────────────────────┘
//
// The outbound sinks only write. Nothing they store is ever read back to
// restore device state; Journal.History and ReadRecording exist for
// inspection from the shell.
package sink
