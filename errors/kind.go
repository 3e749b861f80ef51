package errors

import (
	stderrors "errors"
	"reflect"
)

// Kinded is implemented by errors that classify themselves.
type Kinded interface {
	Kind() string
}

// Transient is implemented by errors that know whether another attempt
// could succeed.
type Transient interface {
	Transient() bool
}

// KindOf names the kind of err. The first error in the chain that implements
// Kinded wins. Otherwise the Go type name of the first error that is not a
// plain message or wrapper is used, and "Error" when there is none.
func KindOf(err error) string {
	if err == nil {
		return "Error"
	}
	var k Kinded
	if stderrors.As(err, &k) {
		if kind := k.Kind(); kind != "" {
			return kind
		}
	}

	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if name := typeName(e); name != "" {
			return name
		}
	}
	return "Error"
}

// typeName returns "" for fmt/errors wrappers and AppError.
func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch name := t.Name(); name {
	case "errorString", "wrapError", "wrapErrors", "joinError", "AppError":
		return ""
	default:
		return name
	}
}
