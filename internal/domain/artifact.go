package domain

// UploadedArtifact is a user upload persisted to the working directory,
// decoupled from any front-end's upload object shape.
type UploadedArtifact struct {
	OriginalName string `json:"original_name"`
	Path         string `json:"path"`
	MIMEType     string `json:"mime_type"`
}
