package domain

// UserMessage translates an error into a message suitable for presenting to
// an end user. Internal detail stays in the error chain for logs.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch TypeOf(err) {
	case ErrorTypeInvalidInput:
		return "The selected file could not be used. Check that it exists and is a PDF document."
	case ErrorTypeFormat:
		return "The file does not look like a valid PDF document."
	case ErrorTypeIO:
		return "The file could not be read. It may have been moved or is on an unavailable drive."
	case ErrorTypeRender:
		return "A page could not be rendered. The document may be damaged."
	case ErrorTypeNoValidPages:
		return "The page range matches no pages in this document."
	case ErrorTypeCancelled:
		return "Extraction was cancelled."
	case ErrorTypeConfig:
		return "The extractor is not configured correctly."
	default:
		return "Extraction failed unexpectedly."
	}
}
