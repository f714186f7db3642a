// Package apierr defines the core error taxonomy (spec.md §7) and its
// projections onto HTTP status codes and gRPC status codes. This is the
// single place either front-end consults to translate a core-layer error
// into its wire representation, so the two surfaces never drift apart.
package apierr

import (
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind enumerates the core error taxonomy. Zero value is not a valid kind.
type Kind int

const (
	_ Kind = iota
	UnknownModel
	Disabled
	Busy
	BadImage
	BadRequest
	InferenceFailed
	Internal
)

func (k Kind) String() string {
	switch k {
	case UnknownModel:
		return "UnknownModel"
	case Disabled:
		return "Disabled"
	case Busy:
		return "Busy"
	case BadImage:
		return "BadImage"
	case BadRequest:
		return "BadRequest"
	case InferenceFailed:
		return "InferenceFailed"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the core-layer error type. Msg is a human-readable detail safe
// to surface to a client; it never contains internal paths or stack data.
type Error struct {
	Kind Kind
	Msg  string
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// HTTPStatus projects the error kind onto the HTTP status table in
// spec.md §7. Disabled and Busy both map to 503 (service unavailable,
// same as the HTTP surface's "pool disabled or every instance busy past
// timeout" clause in §6.2).
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case UnknownModel:
		return http.StatusNotFound
	case Disabled, Busy:
		return http.StatusServiceUnavailable
	case BadImage, BadRequest:
		return http.StatusBadRequest
	case InferenceFailed, Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode projects the error kind onto the gRPC status table in
// spec.md §6.3. Disabled and Busy are deliberately NOT errors at the gRPC
// transport level: the RPC layer maps them to codes.OK with
// success=false in the response body (see internal/rpcapi), so this
// method is only consulted for kinds that really are transport errors.
func (e *Error) GRPCCode() codes.Code {
	switch e.Kind {
	case UnknownModel:
		return codes.NotFound
	case BadImage, BadRequest:
		return codes.InvalidArgument
	case InferenceFailed, Internal:
		return codes.Internal
	case Disabled, Busy:
		return codes.OK
	default:
		return codes.Unknown
	}
}

// IsSoftFailure reports whether kind is one the RPC surface represents as
// OK+success=false rather than a transport-level error (Disabled, Busy).
func IsSoftFailure(kind Kind) bool {
	return kind == Disabled || kind == Busy
}

// GRPCError wraps e as a *status.Status error carrying GRPCCode(), so a
// grpc.Server returns the projected code to the client instead of the
// generic codes.Unknown it falls back to for an unadorned error value.
// Callers that already filtered out IsSoftFailure kinds (see
// internal/rpcapi) should call this on the remaining transport errors.
func (e *Error) GRPCError() error {
	return status.Error(e.GRPCCode(), e.Msg)
}
