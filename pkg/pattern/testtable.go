package pattern

// TestTable represents test records or environments with a status.
type TestTable struct {
	Label   string
	Results []TestTableItem
}

// TestTableItem is a single row.
type TestTableItem struct {
	Name     string
	Status   string // "pass", "fail", "skip"
	Duration string
	Details  string // failure message or extra info
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
