package taxonomy

import "fmt"

// Stage identifies a position in the archive lifecycle.
type Stage int

const (
	// StageUnknown is the zero value; classification never returns it.
	StageUnknown Stage = iota
	// StageNew holds freshly imported, not yet validated material.
	StageNew
	// StageOriginal is the protected archive of originals.
	StageOriginal
	// StageLab is the editing area with linked originals and final output.
	StageLab
	// StageAlbum holds curated selections for presentation.
	StageAlbum
	// StagePrint holds selections prepared for printing.
	StagePrint
)

var stageDirs = map[Stage]string{
	StageNew:      "0_new",
	StageOriginal: "1_original",
	StageLab:      "2_lab",
	StageAlbum:    "3_album",
	StagePrint:    "4_print",
}

var dirStages = map[string]Stage{
	"0_new":      StageNew,
	"1_original": StageOriginal,
	"2_lab":      StageLab,
	"3_album":    StageAlbum,
	"4_print":    StagePrint,
}

// Stages lists all lifecycle stages in order.
func Stages() []Stage {
	return []Stage{StageNew, StageOriginal, StageLab, StageAlbum, StagePrint}
}

// DirName returns the directory name backing the stage.
func (s Stage) DirName() string {
	if dir, ok := stageDirs[s]; ok {
		return dir
	}
	return ""
}

// StageForDir resolves a directory name to its stage.
func StageForDir(name string) (Stage, bool) {
	stage, ok := dirStages[name]
	return stage, ok
}

func (s Stage) String() string {
	switch s {
	case StageNew:
		return "new"
	case StageOriginal:
		return "original"
	case StageLab:
		return "lab"
	case StageAlbum:
		return "album"
	case StagePrint:
		return "print"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}
