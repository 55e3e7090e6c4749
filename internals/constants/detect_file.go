package constants

import (
	"path/filepath"
	"strings"
)

// Batas ukuran satu file upload (attachment, lampiran submission, dst)
const MaxUploadSizeBytes = int64(5 * 1024 * 1024)

func DetectFileTypeFromExt(filename string) int {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".mp3", ".wav":
		return 2 // Audio
	case ".doc", ".docx":
		return 3 // DOCX
	case ".pdf":
		return 4 // PDF
	case ".ppt", ".pptx":
		return 5 // PPT
	case ".png", ".jpg", ".jpeg", ".webp":
		return 6 // Image
	case ".xls", ".xlsx", ".csv":
		return 7 // Spreadsheet
	case ".zip":
		return 8 // Archive
	default:
		return 99 // Tidak diketahui
	}
}

// AllowedUploadExt: allowlist ekstensi untuk lampiran course/submission.
func AllowedUploadExt(filename string) bool {
	return DetectFileTypeFromExt(filename) != 99
}

// IsImageExt dipakai untuk memutuskan jalur re-encode WebP.
func IsImageExt(filename string) bool {
	return DetectFileTypeFromExt(filename) == 6
}
