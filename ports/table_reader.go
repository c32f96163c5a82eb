package ports

// Table holds the raw cells of a tabular file, header row included when the
// file has one. Cells are trimmed.
type Table struct {
	Source string
	Rows   [][]string
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// TableReader provides the raw rows of one tabular input file.
type TableReader interface {
	ReadTable() (*Table, error)
}

// StaticTable serves rows already held in memory.
type StaticTable Table

// ReadTable returns a copy of the table
func (s *StaticTable) ReadTable() (*Table, error) {
	rows := make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return &Table{Source: s.Source, Rows: rows}, nil
}
