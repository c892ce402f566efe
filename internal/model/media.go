package model

// Supported upload MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Thumbnail bounds for the admin media library.
const (
	ThumbWidth   = 400
	ThumbHeight  = 400
	ThumbQuality = 85
)

// IsSupportedMimeType reports whether a MIME type can be uploaded.
func IsSupportedMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}
