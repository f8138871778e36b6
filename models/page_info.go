package models

// isoLayout renders offsets as +00:00 rather than Z.
const isoLayout = "2006-01-02T15:04:05-07:00"

// PageInfo is the fixed-shape metadata record stored under PageInfoKey.
type PageInfo struct {
	Fullname  string  `json:"fullname" yaml:"fullname"`
	Name      string  `json:"name" yaml:"name"`
	Title     string  `json:"title" yaml:"title"`
	Category  string  `json:"category" yaml:"category"`
	CreatedAt *string `json:"created_at" yaml:"created_at"` // ISO-8601, null when unknown
	CreatedBy *string `json:"created_by" yaml:"created_by"`
	Size      int     `json:"size" yaml:"size"`
}
