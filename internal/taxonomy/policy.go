package taxonomy

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Category groups file extensions by media kind. Each category maps 1:1 to
// a canonical type subdirectory inside an event.
type Category string

const (
	CategoryRaw   Category = "raw"
	CategoryJPG   Category = "jpg"
	CategoryVideo Category = "video"
	CategoryAudio Category = "audio"
)

// Categories lists all media categories.
func Categories() []Category {
	return []Category{CategoryRaw, CategoryJPG, CategoryVideo, CategoryAudio}
}

// DirName returns the canonical event subdirectory for the category.
func (c Category) DirName() string { return string(c) }

// Lab-specific subfolder naming inside a lab event directory.
const (
	PreviewDirName    = "1_preview"
	LabOriginalPrefix = "2_original_"
	LabFinalPrefix    = "3_final_"
)

// Extensions are case-sensitive; the archive filesystem preserves case and
// cameras emit a fixed casing per format.
var extensionCategories = map[string]Category{
	"NEF":  CategoryRaw,
	"NRW":  CategoryRaw,
	"CR2":  CategoryRaw,
	"jpg":  CategoryJPG,
	"jpeg": CategoryJPG,
	"JPG":  CategoryJPG,
	"JPEG": CategoryJPG,
	"mov":  CategoryVideo,
	"MOV":  CategoryVideo,
	"mp4":  CategoryVideo,
	"MP4":  CategoryVideo,
	"mpeg": CategoryVideo,
	"wav":  CategoryAudio,
	"WAV":  CategoryAudio,
	"mp3":  CategoryAudio,
}

// CategoryForExtension resolves a file extension (without dot) to its media
// category.
func CategoryForExtension(ext string) (Category, bool) {
	cat, ok := extensionCategories[ext]
	return cat, ok
}

// CategoryForFile resolves a filename to its media category via the
// extension table.
func CategoryForFile(name string) (Category, bool) {
	return CategoryForExtension(extensionOf(name))
}

// Extensions returns the known extensions of the given category in sorted
// order.
func Extensions(cat Category) []string {
	var exts []string
	for ext, c := range extensionCategories {
		if c == cat {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// RawExtensions lists the extensions treated as camera RAW files.
func RawExtensions() []string {
	return Extensions(CategoryRaw)
}

// categoryForDirSuffix matches a directory segment whose suffix after the
// last underscore names a type directory (raw, 2_original_raw, 3_final_jpg).
func categoryForDirSuffix(segment string) (Category, bool) {
	suffix := segment
	if idx := strings.LastIndex(segment, "_"); idx >= 0 {
		suffix = segment[idx+1:]
	}
	switch Category(suffix) {
	case CategoryRaw, CategoryJPG, CategoryVideo, CategoryAudio:
		return Category(suffix), true
	}
	return "", false
}

// legalNameRE is the allow-list for file and directory names: word
// characters, a fixed set of accented Latin letters and ~._- punctuation.
var legalNameRE = regexp.MustCompile(`^[\wäöüÄÖÜé~._-]+$`)

// IsLegalName reports whether a single file or directory name contains only
// allowed characters.
func IsLegalName(name string) bool {
	return legalNameRE.MatchString(name)
}

// nameReplacements is the ordered, deterministic repair table applied by the
// names autofix. The dash-underscore collapse runs after the space
// replacement ("a- b" -> "a-_b" -> "ab").
var nameReplacements = [...][2]string{
	{" ", "_"},
	{"&", "und"},
	{"-_", ""},
}

// FixName applies the deterministic replacement table to a name. Applying
// it to an already-legal name is a no-op.
func FixName(name string) string {
	for _, r := range nameReplacements {
		name = strings.ReplaceAll(name, r[0], r[1])
	}
	return name
}

// PreviewSuffix is appended to a source filename when a preview image is
// generated from it ("DSC_100.NEF" -> "DSC_100.NEF-preview.jpg").
const PreviewSuffix = "-preview.jpg"

// StripPreviewSuffix removes the preview marker, keeping the remaining
// name (extension included).
func StripPreviewSuffix(name string) string {
	return strings.TrimSuffix(name, PreviewSuffix)
}

// DerivativeStem extracts the original name stem used to detect derivative
// files: the preview suffix and the extension are stripped and numeric or
// date prefixes are skipped up to the first letter
// ("20241030_IMG_5-preview.jpg" -> "IMG_5").
func DerivativeStem(name string) string {
	stem := StripPreviewSuffix(name)
	if idx := strings.LastIndex(stem, "."); idx > 0 {
		stem = stem[:idx]
	}
	for i, r := range stem {
		if unicode.IsLetter(r) {
			return stem[i:]
		}
	}
	return ""
}

func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}
