package agenda

import "fmt"

// Error codes for the public agenda operations. Handlers map these onto the
// wire shapes; raw errors never cross the HTTP boundary.
const (
	CodeInput      = "entrada"
	CodeNotFound   = "nenhum"
	CodeNavigation = "navegacao"
	CodeSlotTaken  = "horario_indisponivel"
	CodePatient    = "paciente"
	CodeProcedure  = "procedimento"
	CodeSubmit     = "envio"
	CodeVerify     = "verificacao"
	CodeInternal   = "interno"
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, msg string) error {
	return &Error{Code: code, Message: msg}
}

func newErrorf(code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsAgendaError converts any failure into an *Error so the caller always
// receives a structured payload.
func AsAgendaError(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*Error); ok {
		return ae
	}
	return &Error{Code: CodeInternal, Message: err.Error()}
}
