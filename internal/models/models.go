package models

type ReportKind struct {
	Kind              string   `json:"kind"`
	Title             string   `json:"title"`
	RequiredColumns   []string `json:"required_columns"`
	FilterableColumns []string `json:"filterable_columns"`
}

type Metric struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Filter struct {
	Column   string   `json:"column"`
	Selected string   `json:"selected"`
	Options  []string `json:"options"`
}

type Dashboard struct {
	Kind         string           `json:"kind"`
	Title        string           `json:"title"`
	TotalRows    int              `json:"total_rows"`
	FilteredRows int              `json:"filtered_rows"`
	Metrics      []Metric         `json:"metrics"`
	Filters      []Filter         `json:"filters"`
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	Limit        int              `json:"limit"`
	Offset       int              `json:"offset"`
}

type Upload struct {
	ID         string     `json:"id"`
	Filename   string     `json:"filename"`
	UploadedAt string     `json:"uploaded_at"`
	Dashboard  *Dashboard `json:"dashboard"`
}

type Error struct {
	Message        string   `json:"message"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}
