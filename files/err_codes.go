package files

// Error codes for file operations.
const (
	// CodeEmptyFile is returned when the uploaded stream contains no bytes.
	CodeEmptyFile = "EMPTY_FILE"

	// CodeEmptyFilename is returned when no display name is provided.
	CodeEmptyFilename = "EMPTY_FILENAME"

	// CodeInvalidVisibility is returned for an unknown visibility value.
	CodeInvalidVisibility = "INVALID_VISIBILITY"

	// CodeFileDuplicated is returned when the owner already has a file with
	// the same name or identical content.
	CodeFileDuplicated = "FILE_DUPLICATED"

	// CodeAccessDenied is returned when the requester is not allowed to
	// perform the operation on the file.
	CodeAccessDenied = "ACCESS_DENIED"

	// CodeInternal is returned for backing store failures. The message never
	// carries store internals; those go to the log.
	CodeInternal = "INTERNAL_ERROR"
)
