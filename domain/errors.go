package domain

import "errors"

var (
	// ErrMalformedResponse indicates the listing body had no images field.
	ErrMalformedResponse = errors.New("malformed listing response")

	// ErrMissingFile indicates the upload form has no file selected.
	ErrMissingFile = errors.New("please select a file")

	// ErrNotImage indicates the selected file is not an image.
	ErrNotImage = errors.New("selected file is not an image")

	// ErrEmptyDescription indicates the upload has no description.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrEmptyUploader indicates the upload has no uploader name.
	ErrEmptyUploader = errors.New("uploaded by cannot be empty")
)
