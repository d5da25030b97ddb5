package game

// Kind classifies an engine error so the HTTP layer can pick a status code.
type Kind int

const (
	KindInvalid Kind = iota
	KindUnauthorized
	KindNotFound
	KindNotAcceptable
	KindPrecondition
	KindUnprocessable
	KindPreconditionRequired
)

// Error is a rule violation. Messages are user-facing and stay in Spanish.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func errInvalid(msg string) *Error      { return &Error{Kind: KindInvalid, Msg: msg} }
func errUnauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func errNotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Msg: msg} }
func errNotAcceptable(msg string) *Error {
	return &Error{Kind: KindNotAcceptable, Msg: msg}
}
func errPrecondition(msg string) *Error { return &Error{Kind: KindPrecondition, Msg: msg} }
func errUnprocessable(msg string) *Error {
	return &Error{Kind: KindUnprocessable, Msg: msg}
}
func errPreconditionRequired(msg string) *Error {
	return &Error{Kind: KindPreconditionRequired, Msg: msg}
}
