// Package ops translates a decoded RESP array into a typed, validated
// operation, and holds the error taxonomy the translator can produce.
package ops

import "fmt"

// OpsError is the translator's error taxonomy; every variant converts
// to an ErrorMsg reply and leaves the connection open.
type OpsError struct {
	Kind OpsErrorKind

	Req, Given int
	Msg        string
	Name       string
}

type OpsErrorKind int

const (
	UnknownOp OpsErrorKind = iota
	WrongNumberOfArgs
	NotEnoughArgs
	InvalidArgPattern
	InvalidType
	InvalidStart
)

func (e *OpsError) Error() string {
	switch e.Kind {
	case UnknownOp:
		return fmt.Sprintf("Unknown Operation: %s", e.Name)
	case WrongNumberOfArgs:
		return fmt.Sprintf("Wrong number of arguments! (%d required, %d given)", e.Req, e.Given)
	case NotEnoughArgs:
		return fmt.Sprintf("Not enough arguments, %d required, %d given!", e.Req, e.Given)
	case InvalidArgPattern:
		return fmt.Sprintf("Invalid Arg Pattern, %s", e.Msg)
	case InvalidType:
		return "Invalid Type!"
	case InvalidStart:
		return "Invalid start!"
	default:
		return "Error"
	}
}
