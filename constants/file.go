package constants

import "strings"

// FileTypes holds the allowed values for the format column of parse_job.
var FileTypes = []string{"PDF", "TXT"}

// AllowedExtensions holds the source document extensions accepted by batch runs.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatForExt returns the parse_job format for an extension.
func FormatForExt(ext string) string {
	if NormalizeExt(ext) == "pdf" {
		return "PDF"
	}
	return "TXT"
}

// Artifact names written per document.
const (
	ArtifactDocument       = "document.txt"
	ArtifactSentences      = "sentences.json"
	ArtifactParsedDocument = "parsed_document.json"
)
