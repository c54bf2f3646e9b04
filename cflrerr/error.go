// Package cflrerr maps the toolkit's fatal error kinds (§7) to the
// exit-code contract of §6.5, so a CLI built on the core doesn't need its
// own type switch at every call site.
package cflrerr

import (
	"github.com/go-cflr/cflr/driver"
	"github.com/go-cflr/cflr/grammar"
	"github.com/go-cflr/cflr/loader"
	"github.com/go-cflr/cflr/token"
)

// ExitCode implements §6.5: 0 = accepted, 1 = conflict or undefined
// symbol at build time, 2 = syntax error at parse time, 3 = tokenizer
// error (the *token.AmbiguityError kind). Every other error is reported
// as a generic build-time failure (exit code 1): errors from outside this
// module, and also this module's untyped errors, such as the tokenizer's
// no-matching-class error or the driver's unterminated-stream error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *grammar.UndefinedSymbolError, grammar.ConflictErrors, *grammar.ConflictError:
		return 1
	case *loader.FormatError:
		return 1
	case *driver.SyntaxError:
		return 2
	case *token.AmbiguityError:
		return 3
	default:
		return 1
	}
}
