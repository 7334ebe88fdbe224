package services

import (
	"errors"

	"github.com/shashiranjanraj/estoque/app/repositories"
	"github.com/shashiranjanraj/estoque/pkg/validate"
)

// Outcome kinds. Test with errors.Is; every error a service returns
// matches exactly one of them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrAuthFailed         = errors.New("authentication failed")
)

// ValidationError carries the first violated rule.
type ValidationError struct {
	Violation *validate.Violation
}

func (e *ValidationError) Error() string { return e.Violation.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Error is a non-validation outcome with the message shown to the client.
// Cause is the repository error behind it, if any; it is logged, never
// rendered.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Message returns the client-facing text of err, or fallback when err did
// not come from this package.
func Message(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Violation.Message
	}
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Message
	}
	return fallback
}

func validationFailed(v *validate.Violation) error {
	return &ValidationError{Violation: v}
}

// fromRepository converts a repository error into the service taxonomy.
func fromRepository(err error, notFound, failure string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return &Error{Kind: ErrNotFound, Message: notFound, Cause: err}
	case errors.Is(err, repositories.ErrDuplicate):
		return &Error{Kind: ErrConflict, Message: msgUserOrEmailTaken, Cause: err}
	default:
		return &Error{Kind: ErrStorageUnavailable, Message: failure, Cause: err}
	}
}

const (
	msgProductNotFound  = "Produto não encontrado"
	msgUserNotFound     = "Usuário não encontrado"
	msgEmailNotFound    = "E-mail não encontrado"
	msgUserTaken        = "Usuário já existe"
	msgEmailTaken       = "E-mail já cadastrado"
	msgUserOrEmailTaken = "Usuário ou e-mail já existe"
	msgBadCredentials   = "Usuário ou senha incorretos"

	msgListProductsFailed  = "Erro ao buscar produtos"
	msgFindProductFailed   = "Erro ao buscar produto"
	msgCreateProductFailed = "Erro ao criar produto"
	msgUpdateProductFailed = "Erro ao atualizar produto"
	msgDeleteProductFailed = "Erro ao deletar produto"
	msgCreateUserFailed    = "Erro ao criar usuário"
	msgFindUserFailed      = "Erro ao buscar usuário"
	msgLoginFailed         = "Erro ao verificar login"
)
