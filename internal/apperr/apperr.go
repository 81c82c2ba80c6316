// Package apperr defines the gateway's domain error taxonomy and its
// mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindBadRequest Kind = iota
	KindNotFound
	KindUpstreamUnavailable
	KindUpstream
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	// Status carries the relayed upstream status for KindUpstream;
	// zero for every other kind.
	Status int
	// Stack is captured when a panic is recovered; it is serialized in
	// responses only outside production.
	Stack string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	case KindUpstream:
		if e.Status >= 400 && e.Status < 600 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func UpstreamUnavailable(msg string) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: msg}
}

func Upstream(status int, msg string) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// From returns err as *Error, wrapping anything unrecognized as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
