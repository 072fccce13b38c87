// Package errors defines the service error taxonomy and its mapping to
// HTTP responses. Services return these typed errors; handlers hand
// them to Respond, which keeps client-visible bodies to a single
// "detail" sentence and never leaks internals.
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Kind classifies a service failure.
type Kind int

const (
	KindValidation Kind = iota
	KindDuplicate
	KindSelfAction
	KindNotFound
	KindPreconditionFailed
	KindUnauthorized
	KindUpstreamIO
)

// Error is a classified, client-presentable failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Validation reports a malformed field, rejected before any write.
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// Duplicate reports a uniqueness conflict (email taken, repeated like).
func Duplicate(msg string) error { return &Error{Kind: KindDuplicate, Msg: msg} }

// SelfAction reports an operation a user attempted against themselves.
func SelfAction(msg string) error { return &Error{Kind: KindSelfAction, Msg: msg} }

// NotFound reports an unknown user or candidate id.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// PreconditionFailed reports required state that is absent, e.g. a
// requester without a stored location.
func PreconditionFailed(msg string) error { return &Error{Kind: KindPreconditionFailed, Msg: msg} }

// Unauthorized reports failed authentication. One uniform message is
// used for bad credentials and bad tokens alike, so callers cannot
// probe which accounts exist.
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }

// UpstreamIO reports a storage or store I/O failure.
func UpstreamIO(msg string) error { return &Error{Kind: KindUpstreamIO, Msg: msg} }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Map converts repo/infra errors into service errors. Keeps the service
// layer clean by centralizing the translation.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	switch {
	case errors.As(err, &e):
		return err

	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record not found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Duplicate("record already exists")

	case errors.Is(err, context.DeadlineExceeded):
		return UpstreamIO("request timed out")

	case errors.Is(err, context.Canceled):
		return UpstreamIO("request was canceled")

	default:
		return UpstreamIO("internal error")
	}
}

// Status returns the HTTP status for a service error.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindDuplicate, KindSelfAction, KindNotFound, KindPreconditionFailed:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON response. Unauthorized responses carry
// the bearer challenge header.
func Respond(c *gin.Context, err error) {
	mapped := Map(err)
	status := Status(mapped)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	detail := "internal error"
	var e *Error
	if errors.As(mapped, &e) && status != http.StatusInternalServerError {
		detail = e.Msg
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
