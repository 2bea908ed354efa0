package protocol

// handlerFunc runs one parsed command. It returns the final reply to send
// and whether the session must terminate after sending it.
type handlerFunc func(*Dispatcher, Command) (Reply, bool)

// handlers maps each registered verb to its handler. Dispatch is a plain
// table lookup; the parser has already guaranteed the arity.
var handlers = map[Verb]handlerFunc{
	VerbQuit: (*Dispatcher).handleQuit,
	VerbUser: (*Dispatcher).handleUser,
	VerbPass: (*Dispatcher).handlePass,
	VerbPasv: (*Dispatcher).handlePasv,
	VerbPort: (*Dispatcher).handlePort,
	VerbList: (*Dispatcher).handleList,
	VerbSyst: (*Dispatcher).handleSyst,
	VerbType: (*Dispatcher).handleType,
	VerbNoop: (*Dispatcher).handleNoop,
	VerbPwd:  (*Dispatcher).handlePwd,
	VerbFeat: (*Dispatcher).handleFeat,
}

// Dispatcher routes parsed commands to their handlers on behalf of one
// session.
type Dispatcher struct {
	session *Session
}

// NewDispatcher creates a dispatcher bound to session.
func NewDispatcher(session *Session) *Dispatcher {
	return &Dispatcher{session: session}
}

// Dispatch runs the handler for cmd and reports its outcome.
func (d *Dispatcher) Dispatch(cmd Command) (Reply, bool) {
	handler, ok := handlers[cmd.Verb]
	if !ok {
		// Unreachable while the parser and handler tables agree.
		return NewReply(StatusNotImplemented), false
	}
	return handler(d, cmd)
}
