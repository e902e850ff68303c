// Package store reads and writes the recruitment tables as spreadsheet files.
package store

import "fmt"

// MalformedInputError reports a file whose shape does not match the table:
// wrong file type, unreadable container, or missing columns.
type MalformedInputError struct {
	Source  string
	Message string
	Cause   error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed input %s: %s", e.Source, e.Message)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// UnknownTableError reports a table name outside candidates, interviews and clients.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table: %q", e.Name)
}

// UnknownFormatError reports an unsupported file format or extension.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Format)
}
