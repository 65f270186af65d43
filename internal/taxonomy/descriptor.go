package taxonomy

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"pwf/internal/errs"
)

// Descriptor is the typed description of a path's position in the taxonomy.
// It is a value computed fresh per invocation; operations that change a path
// return a new descriptor and the caller must discard the old one.
type Descriptor struct {
	// Path is the cleaned input path.
	Path string
	// Stage is the lifecycle stage inferred from a stage directory segment.
	Stage Stage
	// Year is the archive year, zero when not resolvable.
	Year int
	// Event is the YYYY-MM-DD_<name> event segment, empty when absent.
	Event string
	// IsEventDir is true iff the event segment is the final path component.
	IsEventDir bool
	// FileType is the media category inferred from a type directory
	// segment, empty when absent.
	FileType Category
}

var (
	eventSegmentRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_.*$`)
	yearSegmentRE  = regexp.MustCompile(`^\d{4}$`)
)

// segmentMatcher consumes one path segment. Matchers are tried in order and
// the first success claims the segment.
type segmentMatcher func(d *Descriptor, segment string, isLast bool) bool

// classifyMatchers is the explicit priority order of the segment scan:
// event date pattern, bare year, type directory suffix, stage directory.
var classifyMatchers = []segmentMatcher{
	matchEventSegment,
	matchYearSegment,
	matchTypeDirSegment,
	matchStageSegment,
}

// Classify parses a filesystem path into a Descriptor. It is a pure
// function over path segments; no filesystem access happens. Classification
// fails when no stage directory appears anywhere in the path.
func Classify(path string) (Descriptor, error) {
	d := Descriptor{Path: filepath.Clean(path)}

	segments := strings.Split(d.Path, string(filepath.Separator))
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		isLast := i == len(segments)-1
		for _, match := range classifyMatchers {
			if match(&d, segment, isLast) {
				break
			}
		}
	}

	if d.Year == 0 && d.Event != "" {
		// The event pattern guarantees a numeric 4-digit prefix.
		year, err := strconv.Atoi(d.Event[:4])
		if err == nil {
			d.Year = year
		}
	}

	if d.Stage == StageUnknown {
		return Descriptor{}, errs.Wrap(errs.ErrClassification, "taxonomy",
			"cannot parse stage from path: "+path, nil)
	}
	return d, nil
}

func matchEventSegment(d *Descriptor, segment string, isLast bool) bool {
	if !eventSegmentRE.MatchString(segment) {
		return false
	}
	// Nested event-like segments can occur; the deepest one wins.
	d.Event = segment
	d.IsEventDir = isLast
	return true
}

func matchYearSegment(d *Descriptor, segment string, _ bool) bool {
	if !yearSegmentRE.MatchString(segment) {
		return false
	}
	year, err := strconv.Atoi(segment)
	if err != nil {
		return false
	}
	// The deepest year segment wins, like the event segment.
	d.Year = year
	return true
}

func matchTypeDirSegment(d *Descriptor, segment string, isLast bool) bool {
	// Filenames carry their category in the extension, not in the segment.
	if isLast && strings.Contains(segment, ".") {
		return false
	}
	cat, ok := categoryForDirSuffix(segment)
	if !ok {
		return false
	}
	if d.FileType == "" {
		d.FileType = cat
	}
	return true
}

func matchStageSegment(d *Descriptor, segment string, _ bool) bool {
	stage, ok := StageForDir(segment)
	if !ok {
		return false
	}
	if d.Stage == StageUnknown {
		d.Stage = stage
	}
	return true
}
