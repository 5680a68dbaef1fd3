package expander

import "errors"

// Failure kinds returned by Expand, wrapped with context.
// Callers distinguish them with errors.Is.
var (
	// ErrTemplateNotFound reports a missing template file.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateUnreadable reports a template file that exists
	// but cannot be read.
	ErrTemplateUnreadable = errors.New("template unreadable")

	// ErrDirectoryCreate reports that the output directory
	// could not be created.
	ErrDirectoryCreate = errors.New("creating output directory failed")

	// ErrFileWrite reports that an output file could not be
	// written. The wrapping error names the file.
	ErrFileWrite = errors.New("writing output file failed")
)
