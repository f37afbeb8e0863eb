// SPDX-License-Identifier: EPL-2.0

// Package logx holds logger defaulting shared by the library packages.
package logx

import (
	"io"

	"github.com/charmbracelet/log"
)

// OrDiscard returns l, or a logger that writes nowhere when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}

// Component returns a child of l tagged with the component name.
func Component(l *log.Logger, name string) *log.Logger {
	return OrDiscard(l).WithPrefix(name)
}
