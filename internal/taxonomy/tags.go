package taxonomy

import (
	"strings"

	"pwf/internal/errs"
)

// Tag is a symbolic @-prefixed alias for a stage directory, usable wherever
// a destination path is expected.
type Tag string

const (
	TagNew      Tag = "@new"
	TagOriginal Tag = "@original"
	TagLab      Tag = "@lab"
	TagAlbum    Tag = "@album"
	TagPrint    Tag = "@print"
)

var tagStages = map[Tag]Stage{
	TagNew:      StageNew,
	TagOriginal: StageOriginal,
	TagLab:      StageLab,
	TagAlbum:    StageAlbum,
	TagPrint:    StagePrint,
}

// Tags lists all known tags in lifecycle order.
func Tags() []Tag {
	return []Tag{TagNew, TagOriginal, TagLab, TagAlbum, TagPrint}
}

// IsTag reports whether the raw argument looks like a tag (leading @).
func IsTag(raw string) bool {
	return strings.HasPrefix(raw, "@")
}

// ParseTag validates a raw tag token.
func ParseTag(raw string) (Tag, error) {
	tag := Tag(raw)
	if _, ok := tagStages[tag]; !ok {
		return "", errs.Wrap(errs.ErrPolicy, "taxonomy", "invalid tag provided: "+raw, nil)
	}
	return tag, nil
}

// Stage returns the lifecycle stage the tag aliases.
func (t Tag) Stage() Stage {
	return tagStages[t]
}

// DirName returns the stage directory name the tag resolves to.
func (t Tag) DirName() string {
	return tagStages[t].DirName()
}
