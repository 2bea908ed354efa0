package protocol

import "fmt"

// ReplyError is a recoverable protocol failure that maps directly to a
// control-channel reply. The session loop sends the reply and keeps running;
// it never tears the connection down.
type ReplyError struct {
	Reply Reply
}

// Error implements the error interface.
func (e *ReplyError) Error() string {
	return fmt.Sprintf("%d %s", e.Reply.Code, e.Reply.Message)
}

func syntaxError() *ReplyError {
	return &ReplyError{Reply: NewReply(StatusBadCommand)}
}

func unknownCommandError() *ReplyError {
	return &ReplyError{Reply: NewReplyMessage(StatusBadCommand, "Command not understood")}
}

func arityError() *ReplyError {
	return &ReplyError{Reply: NewReplyMessage(StatusBadArguments, "Invalid number of arguments")}
}
