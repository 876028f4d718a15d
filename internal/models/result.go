package models

import "time"

// Result records one recovered credential. Append-only.
type Result struct {
	ID           int64     `json:"id" db:"id"`
	JobID        int64     `json:"job_id" db:"job_id"`
	ESSID        string    `json:"essid" db:"essid"`
	Password     string    `json:"password" db:"password"`
	PcapFilename string    `json:"pcap_filename" db:"pcap_filename"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// EssidMapping correlates a network identifier with the capture file it was
// seen in. Written once at capture ingestion, read-only afterwards.
type EssidMapping struct {
	ID           int64  `json:"id" db:"id"`
	PcapFilename string `json:"pcap_filename" db:"pcap_filename"`
	ESSID        string `json:"essid" db:"essid"`
	BatchID      string `json:"batch_id" db:"batch_id"`
}
