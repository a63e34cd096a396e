// Package repository maps entities to table rows. Every repository is built
// over an injected sqlx.ExtContext, so the same code runs against the shared
// pool or inside a transaction.
package repository

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by single-row reads that match nothing.
var ErrNotFound = errors.New("record not found")

// setClause collects "column = ?" fragments for partial updates. Column names
// only ever come from string literals in this package.
type setClause struct {
	parts []string
	args  []interface{}
}

func (s *setClause) add(column string, value interface{}) {
	s.parts = append(s.parts, column+" = ?")
	s.args = append(s.args, value)
}

func (s *setClause) empty() bool { return len(s.parts) == 0 }

func (s *setClause) sql() string { return strings.Join(s.parts, ", ") }

func now() time.Time { return time.Now().UTC() }
