package constants

// AllowedExtensions holds the accepted input document extensions.
// Matching is case-sensitive on the literal extension as extracted
// from the path, so ".PDF" is rejected.
var AllowedExtensions = map[string]struct{}{
	".pdf":  {},
	".ppt":  {},
	".pptx": {},
}

// IsAllowedExt reports whether a file extension is in the allowed set.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[ext]
	return ok
}

// AllowedExtList returns the allow-list in a stable order for error messages.
func AllowedExtList() []string {
	return []string{".pdf", ".ppt", ".pptx"}
}
