// Package cli implements the PulseHome command shell.
//
// The shell turns text lines into hub operations:
//
//	add <light|thermostat|doorlock> <name...> [initial_value]
//	turn_on|turn_off|lock|unlock <name...>
//	set_temp <name...> <temperature>
//	list | status | stats
//	history <name...>
//	replay
//	help
//	exit | quit
//
// Verbs are case-insensitive. Device names are every remaining token
// joined by a single space and are matched case-sensitively. No error ends
// the loop; problems are printed to the error writer and the next line is
// read.
package cli
