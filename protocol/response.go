package protocol

import (
	"fmt"
	"strings"
)

// Reply codes used on the control channel, named after their RFC 959 meaning.
const (
	StatusAboutToSend         = 150
	StatusCommandOK           = 200
	StatusSystem              = 211
	StatusSystemType          = 215
	StatusReady               = 220
	StatusClosing             = 221
	StatusClosingDataConn     = 226
	StatusPassiveMode         = 227
	StatusLoggedIn            = 230
	StatusPathCreated         = 257
	StatusUserOK              = 331
	StatusNotAvailable        = 421
	StatusCanNotOpenDataConn  = 425
	StatusTransferAborted     = 426
	StatusBadCommand          = 500
	StatusBadArguments        = 501
	StatusNotImplemented      = 502
	StatusBadSequence         = 503
	StatusNotImplementedParam = 504
	StatusNotLoggedIn         = 530
	StatusActionNotTaken      = 550
)

// defaultMessages carries the compiled-in text for each reply code. Handlers
// override it for dynamic content such as the passive address tuple.
var defaultMessages = map[int]string{
	StatusAboutToSend:         "Here comes the directory listing",
	StatusCommandOK:           "Command okay",
	StatusSystem:              "End",
	StatusSystemType:          "UNIX Type: L8",
	StatusReady:               "Welcome to the Go FTP server",
	StatusClosing:             "Goodbye",
	StatusClosingDataConn:     "Transfer complete",
	StatusPassiveMode:         "Entering Passive Mode",
	StatusLoggedIn:            "Login successful",
	StatusPathCreated:         `"/" is the current directory`,
	StatusUserOK:              "Please specify the password",
	StatusNotAvailable:        "Service not available, closing control connection",
	StatusCanNotOpenDataConn:  "Use PASV first",
	StatusTransferAborted:     "Connection closed; transfer aborted",
	StatusBadCommand:          "Command not executed: syntax error",
	StatusBadArguments:        "Syntax error in parameters or arguments",
	StatusNotImplemented:      "Command not implemented",
	StatusBadSequence:         "Bad sequence of commands",
	StatusNotImplementedParam: "Command not implemented for that parameter",
	StatusNotLoggedIn:         "Not logged in",
	StatusActionNotTaken:      "Requested action not taken",
}

// Reply is one numbered control-channel reply.
type Reply struct {
	Code    int
	Message string
}

// NewReply returns the reply for code with its default message text.
func NewReply(code int) Reply {
	return Reply{Code: code, Message: defaultMessages[code]}
}

// NewReplyMessage returns the reply for code with caller-supplied text.
func NewReplyMessage(code int, message string) Reply {
	return Reply{Code: code, Message: message}
}

// String renders the reply in wire format: `<code> <message>\r\n`. A message
// that already ends in CRLF is not terminated a second time.
func (r Reply) String() string {
	if strings.HasSuffix(r.Message, "\r\n") {
		return fmt.Sprintf("%d %s", r.Code, r.Message)
	}
	return fmt.Sprintf("%d %s\r\n", r.Code, r.Message)
}
