package errcode

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	CheckpointErrorBase = iota * 1000
	ChainErrorBase
	ConfErrorBase
	PersistErrorBase
)

type ProjectError struct {
	Module string
	Code   int
	Desc   string
}

func (e ProjectError) Error() string {
	return fmt.Sprintf("module: %s, global errcode: %v,  desc: %s", e.Module, e.Code, e.Desc)
}

func getCodeAndName(errCode fmt.Stringer) (int, string) {
	code := 0
	name := ""

	switch t := errCode.(type) {
	case CheckpointErr:
		code = int(t)
		name = "checkpoint"
	case ChainErr:
		code = int(t)
		name = "chain"
	case ConfErr:
		code = int(t)
		name = "conf"
	case PersistErr:
		code = int(t)
		name = "persist"
	default:
	}

	return code, name
}

// IsErrorCode reports whether err, or the error it wraps, was created by
// New(errCode).
func IsErrorCode(err error, errCode fmt.Stringer) bool {
	e, ok := errors.Cause(err).(ProjectError)
	icode, name := getCodeAndName(errCode)
	return ok && icode == e.Code && name == e.Module
}

func New(errCode fmt.Stringer) error {
	code, name := getCodeAndName(errCode)

	return ProjectError{
		Module: name,
		Code:   code,
		Desc:   errCode.String(),
	}
}
