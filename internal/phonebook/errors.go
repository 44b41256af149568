package phonebook

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// ErrUnreachable matches every transport failure returned by Client:
// refused or dropped connections, timeouts and malformed exchanges alike.
var ErrUnreachable = errors.New("phone book service unreachable")

var errEmptyAddress = errors.New("empty server address")

// TransportError reports a call that never produced a valid response.
type TransportError struct {
	Op   string
	Addr string
	// Code is the gRPC status code, codes.Unknown when the failure happened
	// before a call was attempted.
	Code codes.Code
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrUnreachable }
