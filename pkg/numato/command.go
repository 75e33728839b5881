package numato

import (
	"github.com/urmzd/relayctl/pkg/relay"
)

// Command verbs understood by the relay board firmware
const (
	VerbWriteAll = "writeall"
	VerbReadAll  = "readall"
)

// Terminator ends every command line.
const Terminator = "\r"

// Command is a single board command. Build one per exchange with
// WriteAllCommand or ReadAllCommand.
type Command struct {
	verb    string
	payload string
}

// WriteAllCommand sets every channel from state.
func WriteAllCommand(state relay.State) Command {
	return Command{verb: VerbWriteAll, payload: state.Hex()}
}

// ReadAllCommand queries every channel.
func ReadAllCommand() Command {
	return Command{verb: VerbReadAll}
}

// Verb returns the command verb.
func (c Command) Verb() string {
	return c.verb
}

// Payload returns the 8 hex digit argument, empty for readall.
func (c Command) Payload() string {
	return c.payload
}

// String returns the command line without the terminator.
func (c Command) String() string {
	if c.payload == "" {
		return "relay " + c.verb
	}
	return "relay " + c.verb + " " + c.payload
}

// Bytes returns the terminated ASCII command.
func (c Command) Bytes() []byte {
	return []byte(c.String() + Terminator)
}
