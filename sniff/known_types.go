package sniff

// knownTypes is the registry of MIME types a client may declare directly.
// Declared types outside this set fall back to header sniffing.
var knownTypes = map[string]struct{}{
	// Images.
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/svg+xml": {},
	"image/bmp":     {},
	"image/x-icon":  {},
	"image/tiff":    {},

	// Audio.
	"audio/mpeg": {},
	"audio/wav":  {},
	"audio/ogg":  {},
	"audio/aac":  {},
	"audio/flac": {},
	"audio/webm": {},

	// Video.
	"video/mp4":        {},
	"video/x-msvideo":  {},
	"video/quicktime":  {},
	"video/x-ms-wmv":   {},
	"video/ogg":        {},
	"video/webm":       {},
	"video/x-matroska": {},

	// Text and documents.
	"text/plain":             {},
	"text/html":              {},
	"text/css":               {},
	"text/csv":               {},
	"text/xml":               {},
	"text/markdown":          {},
	"application/pdf":        {},
	"application/rtf":        {},
	"application/javascript": {},
	"application/json":       {},
	"application/xml":        {},
	"application/yaml":       {},

	// Office formats.
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"application/vnd.oasis.opendocument.text":                                   {},
	"application/vnd.oasis.opendocument.spreadsheet":                            {},
	"application/vnd.oasis.opendocument.presentation":                           {},

	// Archives.
	"application/zip":             {},
	"application/vnd.rar":         {},
	"application/x-7z-compressed": {},
	"application/x-tar":           {},
	"application/gzip":            {},
}
