package check

import (
	"errors"
	"testing"

	"pwf/internal/errs"
	"pwf/internal/taxonomy"
)

func TestResolveChecklistLabDefaults(t *testing.T) {
	checklist, warnNames, err := resolveChecklist(taxonomy.StageLab, nil, nil)
	if err != nil {
		t.Fatalf("resolveChecklist: %v", err)
	}
	if warnNames {
		t.Error("names is enabled, no warning expected")
	}
	want := []Category{CategoryNames, CategoryDuplicates}
	if len(checklist) != len(want) {
		t.Fatalf("lab checklist = %v, want %v", checklist.names(), want)
	}
	for _, cat := range want {
		if !checklist.has(cat) {
			t.Errorf("lab checklist missing %s", cat)
		}
	}
}

func TestResolveChecklistNewDefaults(t *testing.T) {
	checklist, _, err := resolveChecklist(taxonomy.StageNew, nil, nil)
	if err != nil {
		t.Fatalf("resolveChecklist: %v", err)
	}
	for _, exempt := range []Category{CategoryChecksums, CategoryMissingFiles, CategoryProtection} {
		if checklist.has(exempt) {
			t.Errorf("new checklist must exempt %s", exempt)
		}
	}
	for _, required := range []Category{CategoryNames, CategoryDuplicates, CategoryRawDerivatives, CategoryPathLocation} {
		if !checklist.has(required) {
			t.Errorf("new checklist missing %s", required)
		}
	}
}

func TestResolveChecklistOriginalKeepsEverything(t *testing.T) {
	checklist, _, err := resolveChecklist(taxonomy.StageOriginal, nil, nil)
	if err != nil {
		t.Fatalf("resolveChecklist: %v", err)
	}
	for _, cat := range AllCategories() {
		if !checklist.has(cat) {
			t.Errorf("original checklist missing %s", cat)
		}
	}
}

func TestResolveChecklistForbiddenIgnoresInNew(t *testing.T) {
	for _, forbidden := range []Category{CategoryDuplicates, CategoryPathLocation} {
		_, _, err := resolveChecklist(taxonomy.StageNew, []Category{forbidden}, nil)
		if !errors.Is(err, errs.ErrPolicy) {
			t.Errorf("ignoring %s in 0_new must be a policy error, got %v", forbidden, err)
		}
	}
	// The same ignores are fine elsewhere.
	if _, _, err := resolveChecklist(taxonomy.StageOriginal, []Category{CategoryDuplicates}, nil); err != nil {
		t.Errorf("ignoring duplicates in 1_original should work: %v", err)
	}
}

func TestResolveChecklistEmptyIsPolicyError(t *testing.T) {
	_, _, err := resolveChecklist(taxonomy.StageLab,
		[]Category{CategoryNames, CategoryDuplicates}, nil)
	if !errors.Is(err, errs.ErrPolicy) {
		t.Fatalf("expected policy error for empty checklist, got %v", err)
	}
}

func TestResolveChecklistOnlyList(t *testing.T) {
	checklist, warnNames, err := resolveChecklist(taxonomy.StageOriginal, nil,
		[]Category{CategoryDuplicates})
	if err != nil {
		t.Fatalf("resolveChecklist: %v", err)
	}
	if !warnNames {
		t.Error("dropping names must request a warning")
	}
	if len(checklist) != 1 || !checklist.has(CategoryDuplicates) {
		t.Errorf("only-list checklist = %v", checklist.names())
	}
}

func TestParseCategories(t *testing.T) {
	cats, err := ParseCategories("cs,dup,names")
	if err != nil {
		t.Fatalf("ParseCategories: %v", err)
	}
	want := []Category{CategoryChecksums, CategoryDuplicates, CategoryNames}
	if len(cats) != len(want) {
		t.Fatalf("got %v", cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("cats[%d] = %s, want %s", i, cats[i], want[i])
		}
	}

	if _, err := ParseCategories("bogus"); !errors.Is(err, errs.ErrPolicy) {
		t.Errorf("unknown category must be a policy error, got %v", err)
	}
	if cats, err := ParseCategories(""); err != nil || cats != nil {
		t.Errorf("empty list should parse to nil, got %v, %v", cats, err)
	}
}
