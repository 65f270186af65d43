package downsize

import (
	"fmt"

	"pwf/internal/errs"
)

// Size is a pixel dimension pair.
type Size struct {
	Width  int
	Height int
}

func (s Size) Landscape() bool { return s.Width > s.Height }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// SizeTag names one of the fixed output bounding boxes.
type SizeTag string

const (
	TagUHD SizeTag = "UHD"
	TagQHD SizeTag = "QHD"
	TagFHD SizeTag = "FHD"
	TagHD  SizeTag = "HD"
)

var tagSizes = map[SizeTag]Size{
	TagUHD: {3840, 2160},
	TagQHD: {2560, 1440},
	TagFHD: {1920, 1080},
	TagHD:  {1280, 720},
}

// SizeTags lists the known tags from largest to smallest.
func SizeTags() []SizeTag {
	return []SizeTag{TagUHD, TagQHD, TagFHD, TagHD}
}

// ParseSizeTag validates a tag name and returns its bounding box.
func ParseSizeTag(raw string) (SizeTag, Size, error) {
	tag := SizeTag(raw)
	box, ok := tagSizes[tag]
	if !ok {
		return "", Size{}, errs.Wrap(errs.ErrPolicy, "downsize",
			fmt.Sprintf("illegal size tag %q", raw), nil)
	}
	return tag, box, nil
}

// ComputeInsideBox scales img down to fit inside box, keeping the aspect
// ratio. With align the box is rotated to match the image orientation, so
// portrait shots come out with the same resolution as landscape ones.
// Images already inside the box are returned unscaled.
func ComputeInsideBox(img, box Size, align bool) Size {
	w, h := float64(img.Width), float64(img.Height)
	bw, bh := float64(box.Width), float64(box.Height)

	if align && img.Landscape() != box.Landscape() {
		bw, bh = bh, bw
	}

	if w > bw {
		h *= bw / w
		w = bw
	}
	if h > bh {
		w *= bh / h
		h = bh
	}
	return Size{Width: int(w), Height: int(h)}
}
