package store

import "strings"

// TableName identifies one of the three record collections.
type TableName string

// The three tables.
const (
	Candidates TableName = "candidates"
	Interviews TableName = "interviews"
	Clients    TableName = "clients"
)

// Tables lists every table in a stable order.
var Tables = []TableName{Candidates, Interviews, Clients}

// ParseTable resolves a user-supplied table name.
func ParseTable(name string) (TableName, error) {
	t := TableName(strings.ToLower(strings.TrimSpace(name)))
	switch t {
	case Candidates, Interviews, Clients:
		return t, nil
	}
	return "", &UnknownTableError{Name: name}
}

// Columns returns the column header written for the table.
func (t TableName) Columns() []string {
	switch t {
	case Candidates:
		return candidateSpec.columns
	case Interviews:
		return interviewSpec.columns
	case Clients:
		return clientSpec.columns
	}
	return nil
}

// Format is the on-disk spreadsheet format of the backing files.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat resolves a format name or a file extension such as ".csv".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatXLSX, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", &UnknownFormatError{Format: s}
}
