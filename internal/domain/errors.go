package domain

import "errors"

var (
	ErrUnsupportedCategory = errors.New("unsupported content category")
	ErrNoReport            = errors.New("no report uploaded")
	ErrEmptyResponse       = errors.New("model returned empty response")
	ErrWrongPassword       = errors.New("wrong password")
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
