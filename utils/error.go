package utils

import (
	"fmt"
)

type ServiceError struct {
	Code uint32
	Msg  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ServiceError: code=%d, msg=%s", e.Code, e.Msg)
}

var (
	// caller misuse: [400000, 500000)
	ErrInvalidArgument = &ServiceError{400000, "invalid argument"}
	ErrDescriptor      = &ServiceError{400001, "invalid dataset descriptor"}
	ErrWrongDataType   = &ServiceError{400002, "wrong data type"}

	// io: [500000, 600000)
	ErrOpenFile = &ServiceError{500001, "open file error"}
	ErrReadFile = &ServiceError{500002, "read file error"}

	// internal: [900000, 1000000)
	ErrInternalInvariant = &ServiceError{900000, "internal invariant violated"}
)
