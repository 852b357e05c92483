// Package mode defines the process-wide mode flags of the bot.
package mode

import (
	"errors"
	"strings"
)

// State is the set of runtime mode flags.
// The zero value is the startup default: everything off.
type State struct {
	// Maintenance restricts non-administrators to commands which are
	// available during maintenance.
	Maintenance bool `json:"maintenance"`
	// Debug sends diagnostic notices to the administrator.
	Debug bool `json:"debug"`
	// Verbose sends diagnostic notices to the administrator, plus a status
	// block for each of the administrator's own commands.
	Verbose bool `json:"verbose"`
}

// Diagnostic returns the label for diagnostic notices, or the empty string
// if no diagnostic mode is enabled.
func (s State) Diagnostic() string {
	switch {
	case s.Debug:
		return "DEBUG"
	case s.Verbose:
		return "VERBOSE"
	default:
		return ""
	}
}

// ErrSwitch is returned by [Switch] for arguments other than on or off.
var ErrSwitch = errors.New("mode: switch argument must be on or off")

// Switch interprets a toggle command argument against the current value of a
// flag. An empty argument flips the flag. The words on/off and a few
// synonyms set it explicitly.
func Switch(cur bool, arg string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		return !cur, nil
	case "on", "enable", "true", "1":
		return true, nil
	case "off", "disable", "false", "0":
		return false, nil
	default:
		return cur, ErrSwitch
	}
}
