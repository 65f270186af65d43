// Package link computes legal cross-taxonomy symlink targets and creates
// relative symlinks between stages.
//
// Links always point from a later stage back into an earlier one: the album
// and print trees reference originals or finalized lab output, the lab
// references the original archive. The resolver substitutes stage segments
// to derive destinations from @-tags, enforces the stage adjacency policy
// and computes relative targets routed through the archive root.
package link

import (
	"path/filepath"
	"strings"

	"pwf/internal/archive"
	"pwf/internal/errs"
	"pwf/internal/taxonomy"
)

// allowedTransitions is the fixed adjacency table of legal
// (source stage, destination stage) link pairs.
var allowedTransitions = map[taxonomy.Stage][]taxonomy.Stage{
	taxonomy.StageOriginal: {taxonomy.StageLab, taxonomy.StageAlbum, taxonomy.StagePrint},
	taxonomy.StageLab:      {taxonomy.StageAlbum, taxonomy.StagePrint},
}

// ResolveTagDestination turns a symbolic tag into the concrete destination
// path for srcPath by substituting its stage directory segment. The source
// must sit inside an event directory. Lab sources may only be promoted from
// 3_final_ subfolders (the marker segment is stripped); linking into the
// lab rewrites the type segment with the 2_original_ prefix and requires an
// original-archive source.
func ResolveTagDestination(srcPath string, tag taxonomy.Tag) (string, error) {
	desc, err := taxonomy.Classify(srcPath)
	if err != nil {
		return "", err
	}
	if desc.Event == "" {
		return "", errs.Wrap(errs.ErrPolicy, "link", "linking to tag only allowed from within an event directory", nil)
	}

	segments := strings.Split(desc.Path, string(filepath.Separator))

	if desc.Stage == taxonomy.StageLab {
		if !stripLabFinal(segments) {
			return "", errs.Wrap(errs.ErrPolicy, "link",
				"only "+taxonomy.LabFinalPrefix+" folders may be linked out of the lab", nil)
		}
	}

	replaced := false
	for i, segment := range segments {
		if segment == desc.Stage.DirName() {
			segments[i] = tag.DirName()
			replaced = true
			break
		}
	}
	if !replaced {
		return "", errs.Wrap(errs.ErrClassification, "link", "no stage segment in "+srcPath, nil)
	}

	if tag == taxonomy.TagLab {
		if desc.Stage != taxonomy.StageOriginal {
			return "", errs.Wrap(errs.ErrPolicy, "link", "source for @lab must be in "+taxonomy.StageOriginal.DirName(), nil)
		}
		if !rewriteTypeDir(segments) {
			return "", errs.Wrap(errs.ErrPolicy, "link", "cannot determine file type dir from "+srcPath, nil)
		}
	}

	return strings.Join(segments, string(filepath.Separator)), nil
}

// stripLabFinal replaces the first 3_final_<type> segment with its bare
// type name and reports whether one was present.
func stripLabFinal(segments []string) bool {
	for i, segment := range segments {
		if rest, ok := strings.CutPrefix(segment, taxonomy.LabFinalPrefix); ok && rest != "" {
			segments[i] = rest
			return true
		}
	}
	return false
}

// rewriteTypeDir prefixes the first bare type directory segment with
// 2_original_ and reports whether one was present.
func rewriteTypeDir(segments []string) bool {
	for i, segment := range segments {
		for _, cat := range taxonomy.Categories() {
			if segment == cat.DirName() {
				segments[i] = taxonomy.LabOriginalPrefix + segment
				return true
			}
		}
	}
	return false
}

// CheckStageTransition enforces the stage adjacency table.
func CheckStageTransition(from, to taxonomy.Stage) error {
	for _, stage := range allowedTransitions[from] {
		if stage == to {
			return nil
		}
	}
	return errs.Wrap(errs.ErrPolicy, "link",
		"not allowed to link from "+from.String()+" to "+to.String(), nil)
}

// CheckLinkAllowed enforces the stage transition policy between a source
// and destination path.
func CheckLinkAllowed(srcPath, dstPath string) error {
	src, err := taxonomy.Classify(srcPath)
	if err != nil {
		return err
	}
	dst, err := taxonomy.Classify(dstPath)
	if err != nil {
		return err
	}

	if err := CheckStageTransition(src.Stage, dst.Stage); err != nil {
		return err
	}

	if src.Stage == taxonomy.StageLab && !strings.Contains(srcPath, taxonomy.LabFinalPrefix) {
		return errs.Wrap(errs.ErrPolicy, "link", "not allowed to link from this source path", nil)
	}
	if dst.Stage == taxonomy.StageLab && !strings.Contains(dstPath, taxonomy.LabOriginalPrefix) {
		return errs.Wrap(errs.ErrPolicy, "link", "lab destinations must be "+taxonomy.LabOriginalPrefix+" folders", nil)
	}
	return nil
}

// RelativeLinkTarget computes the symlink target for a link at dstPath
// pointing at srcPath. The path is routed through the archive root (up from
// the destination's parent to the root, then down to the source), which is
// longer than a nearest-ancestor walk but predictable.
func RelativeLinkTarget(arch *archive.Archive, srcPath, dstPath string) (string, error) {
	srcRel, err := filepath.Rel(arch.Root(), filepath.Clean(srcPath))
	if err != nil {
		return "", err
	}
	parentRel, err := filepath.Rel(arch.Root(), filepath.Dir(filepath.Clean(dstPath)))
	if err != nil {
		return "", err
	}

	var ups []string
	if parentRel != "." {
		for range strings.Split(parentRel, string(filepath.Separator)) {
			ups = append(ups, "..")
		}
	}
	return filepath.Join(append(ups, srcRel)...), nil
}
