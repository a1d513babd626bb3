// Package logging provides component-tagged loggers over the standard
// library's log package, matching the bracket-tag convention used
// throughout the rest of this codebase's ambient stack.
package logging

import (
	"log"
	"os"
)

// New returns a logger that prefixes every line with "[component] ".
func New(component string) *log.Logger {
	return log.New(os.Stderr, "["+component+"] ", log.LstdFlags)
}
