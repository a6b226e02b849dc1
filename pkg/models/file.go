package models

// FileInfo is the metadata the files collaborator exposes for a stored file.
type FileInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
	OwnerID  string `json:"owner_id"`
	Size     int64  `json:"size,omitempty"`
}
