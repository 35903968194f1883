package infra

import (
	"errors"
	"log/slog"

	"mallfront/internal/pkg/errs"
)

type UpstreamErrorKind string

type UpstreamError struct {
	Kind UpstreamErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e UpstreamError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e UpstreamError) Unwrap() error {
	return e.err
}

func NewUpstreamErr(kind UpstreamErrorKind, msg string) error {
	return UpstreamError{Kind: kind, msg: msg}
}

func WrapUpstreamErr(slogger *slog.Logger, kind UpstreamErrorKind, msg string, err error) error {
	slogger.Error("Upstream error: "+msg, slog.String("kind", string(kind)))

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return UpstreamError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind UpstreamErrorKind) bool {
	var e UpstreamError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Upstream-specific error kinds
const (
	KindNotFound        UpstreamErrorKind = "NOT_FOUND"
	KindValidation      UpstreamErrorKind = "VALIDATION"
	KindAuthRejected    UpstreamErrorKind = "AUTH_REJECTED"
	KindUpstreamFailure UpstreamErrorKind = "UPSTREAM_FAILURE"
)
