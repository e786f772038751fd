package service

import (
	"context"
)

// RemoteFile is a handle to a file held by the remote model account.
// Lifetime is the remote account's storage; local state keeps references only.
type RemoteFile struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	URI         string `json:"uri"`
	MIMEType    string `json:"mime_type"`
}

// Part is one ordered element of a generate request: a text segment or a
// previously uploaded file.
type Part struct {
	Text string
	File *RemoteFile
}

func TextPart(text string) Part   { return Part{Text: text} }
func FilePart(f *RemoteFile) Part { return Part{File: f} }

// Gateway is the boundary to the remote generative-model service. Every
// method is a fallible network call; callers must never let a failure
// corrupt an in-memory session.
type Gateway interface {
	Upload(ctx context.Context, path, mimeType string) (*RemoteFile, error)
	Generate(ctx context.Context, purpose string, parts []Part) (string, error)
	CreateDocumentCache(ctx context.Context, file *RemoteFile, systemInstruction string) (string, error)
	GenerateFromCache(ctx context.Context, cacheName, prompt string) (string, error)
	ListFiles(ctx context.Context) ([]RemoteFile, error)
	DeleteFile(ctx context.Context, name string) error
	ClearCaches(ctx context.Context) (int, error)
}
