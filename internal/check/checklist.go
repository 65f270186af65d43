package check

import (
	"fmt"
	"sort"
	"strings"

	"pwf/internal/errs"
	"pwf/internal/taxonomy"
)

// Category is one independently selectable unit of validation.
type Category string

const (
	CategoryNames          Category = "names"
	CategoryDuplicates     Category = "duplicates"
	CategoryProtection     Category = "protection"
	CategoryRawDerivatives Category = "raw-derivatives"
	CategoryPathLocation   Category = "path-location"
	CategoryChecksums      Category = "checksums"
	CategoryMissingFiles   Category = "missing-files"
)

// runOrder is the fixed evaluation order. The missing-files category is a
// subset of checksums and is skipped when checksums is enabled.
var runOrder = []Category{
	CategoryNames,
	CategoryDuplicates,
	CategoryProtection,
	CategoryRawDerivatives,
	CategoryPathLocation,
	CategoryChecksums,
	CategoryMissingFiles,
}

// aliases maps the short list tokens of the original tooling onto
// categories, next to the canonical long names.
var aliases = map[string]Category{
	"name": CategoryNames,
	"dup":  CategoryDuplicates,
	"prot": CategoryProtection,
	"raw":  CategoryRawDerivatives,
	"path": CategoryPathLocation,
	"cs":   CategoryChecksums,
	"miss": CategoryMissingFiles,
}

// AllCategories lists every category in run order.
func AllCategories() []Category {
	return append([]Category(nil), runOrder...)
}

// ParseCategories parses a comma-separated category list, accepting both
// canonical names and the short aliases.
func ParseCategories(raw string) ([]Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []Category
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		cat := Category(token)
		if alias, ok := aliases[token]; ok {
			cat = alias
		}
		if !isKnown(cat) {
			return nil, errs.Wrap(errs.ErrPolicy, "check",
				fmt.Sprintf("unknown check category %q", token), nil)
		}
		out = append(out, cat)
	}
	return out, nil
}

func isKnown(cat Category) bool {
	for _, known := range runOrder {
		if cat == known {
			return true
		}
	}
	return false
}

type categorySet map[Category]struct{}

func newCategorySet(cats []Category) categorySet {
	set := make(categorySet, len(cats))
	for _, cat := range cats {
		set[cat] = struct{}{}
	}
	return set
}

func (s categorySet) has(cat Category) bool {
	_, ok := s[cat]
	return ok
}

func (s categorySet) names() string {
	out := make([]string, 0, len(s))
	for cat := range s {
		out = append(out, string(cat))
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// forbiddenIgnores lists categories that must never be user-ignored per
// stage; fresh imports in 0_new may not bypass duplicate or placement
// validation.
var forbiddenIgnores = map[taxonomy.Stage][]Category{
	taxonomy.StageNew: {CategoryDuplicates, CategoryPathLocation},
}

// mandatoryExemptions lists the categories a stage never checks by default:
// nothing in 0_new is protected yet, the lab is a free-form working area,
// and only the original archive carries manifests and protection bits.
var mandatoryExemptions = map[taxonomy.Stage][]Category{
	taxonomy.StageNew: {CategoryChecksums, CategoryMissingFiles, CategoryProtection},
	taxonomy.StageLab: {
		CategoryChecksums, CategoryMissingFiles, CategoryProtection,
		CategoryPathLocation, CategoryRawDerivatives,
	},
	taxonomy.StageAlbum: {CategoryChecksums, CategoryMissingFiles, CategoryProtection},
	taxonomy.StagePrint: {CategoryChecksums, CategoryMissingFiles, CategoryProtection},
}

// resolveChecklist computes the effective category set for a run.
// The returned warnNames flag asks the caller to warn when the names
// category ended up excluded.
func resolveChecklist(stage taxonomy.Stage, ignore, only []Category) (categorySet, bool, error) {
	userIgnore := newCategorySet(ignore)

	for _, forbidden := range forbiddenIgnores[stage] {
		if userIgnore.has(forbidden) {
			return nil, false, errs.Wrap(errs.ErrPolicy, "check",
				fmt.Sprintf("ignoring %s violations is not allowed in %s", forbidden, stage.DirName()), nil)
		}
	}

	effectiveIgnore := newCategorySet(ignore)
	for _, exempt := range mandatoryExemptions[stage] {
		effectiveIgnore[exempt] = struct{}{}
	}

	base := runOrder
	if len(only) > 0 {
		base = only
	}

	checklist := make(categorySet)
	for _, cat := range base {
		if !effectiveIgnore.has(cat) {
			checklist[cat] = struct{}{}
		}
	}

	if len(checklist) == 0 {
		return nil, false, errs.Wrap(errs.ErrPolicy, "check", "everything ignored, nothing to check", nil)
	}

	return checklist, !checklist.has(CategoryNames), nil
}
