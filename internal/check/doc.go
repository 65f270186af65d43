// Package check walks an archive subtree and enforces naming, duplication,
// permission, checksum and placement invariants.
//
// Checks are grouped into independently selectable categories. The effective
// checklist for a run is derived from the subtree's taxonomy stage: some
// categories are mandatory-exempt per stage, some may not be ignored at all,
// and an explicit only-list narrows the run. Violations are collected and
// logged per category before the category raises a single aggregate error;
// categories run in a fixed order and the first failing category stops the
// run.
package check
