package generator

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when a generator is constructed with
	// parameters outside of its domain.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSamplingFailure is the panic value raised when rejection sampling
	// does not accept a candidate within the iteration cap.
	ErrSamplingFailure = errors.New("sampling failure")
)

func invalidArgumentf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
