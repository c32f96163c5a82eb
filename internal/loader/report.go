package loader

// LoadReport counts what happened to the rows of one input table.
type LoadReport struct {
	Source  string
	Rows    int // data rows seen, header excluded
	Kept    int
	Dropped int // rows outside the recognized age bands
	Skipped int // header duplicates and blank rows
	Missing int // rows kept with a missing value
}
