package models

// Dictionary represents one wordlist file registered from the dictionary
// directory. The set is refreshed by full-replace sync on every scan, so
// rows are not owned by any job.
type Dictionary struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Path string `json:"path" db:"path"`
	Size int64  `json:"size" db:"size"`
}
