package request

import "time"

// Record is one backend record of the configured bundle. Geolocation is
// kept as text the way the store delivers it; parsing happens in the
// mapper so a malformed coordinate degrades instead of failing a scan.
type Record struct {
	NID        int64
	UUID       string
	Bundle     string
	Title      string
	Body       string
	Lat        string
	Lng        string
	StatusID   string
	CategoryID string
	Email      string
	Address    string
	MediaURL   string
	Published  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Values enumerates the fields written when creating a record.
type Values struct {
	Bundle     string
	Title      string
	Body       string
	Email      string
	Lat        string
	Lng        string
	Address    string
	CategoryID string
	StatusID   string
	MediaURL   string
	Published  bool
}
