// Package protocol implements the control-channel engine of the FTP server:
// command parsing, the per-connection login state machine, passive-mode data
// channel management, and command dispatch.
package protocol

import "strings"

// Verb identifies a supported control-channel command.
type Verb string

const (
	VerbQuit Verb = "QUIT"
	VerbUser Verb = "USER"
	VerbPass Verb = "PASS"
	VerbPasv Verb = "PASV"
	VerbPort Verb = "PORT"
	VerbList Verb = "LIST"
	VerbSyst Verb = "SYST"
	VerbType Verb = "TYPE"
	VerbNoop Verb = "NOOP"
	VerbPwd  Verb = "PWD"
	VerbFeat Verb = "FEAT"
)

// commandTable is the closed registry of supported verbs and their declared
// arity. Adding a command means adding a row here and a handler row in the
// dispatcher table.
var commandTable = map[Verb]int{
	VerbQuit: 0,
	VerbUser: 1,
	VerbPass: 1,
	VerbPasv: 0,
	VerbPort: 1,
	VerbList: 0,
	VerbSyst: 0,
	VerbType: 1,
	VerbNoop: 0,
	VerbPwd:  0,
	VerbFeat: 0,
}

// Command is one parsed control-channel command. For a verb of declared
// arity N > 0, Args holds exactly N entries. Arity-0 verbs carry either no
// argument or a single argument holding the joined trailing tokens.
type Command struct {
	Verb Verb
	Args []string
}

// ParseCommand tokenizes one control line on ASCII whitespace and resolves
// the first token against the verb registry, case-insensitively.
//
// Extra tokens are never dropped: every token from the last declared argument
// position onward is joined with single spaces into the final argument.
// Fewer tokens than the declared arity is a 501-class error; an empty line or
// an unknown verb is a 500-class error. Both come back as *ReplyError.
func ParseCommand(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{}, syntaxError()
	}

	verb := Verb(strings.ToUpper(tokens[0]))
	arity, ok := commandTable[verb]
	if !ok {
		return Command{}, unknownCommandError()
	}

	rest := tokens[1:]
	if arity == 0 {
		if len(rest) == 0 {
			return Command{Verb: verb}, nil
		}
		return Command{Verb: verb, Args: []string{strings.Join(rest, " ")}}, nil
	}

	if len(rest) < arity {
		return Command{}, arityError()
	}
	args := make([]string, 0, arity)
	args = append(args, rest[:arity-1]...)
	args = append(args, strings.Join(rest[arity-1:], " "))
	return Command{Verb: verb, Args: args}, nil
}
