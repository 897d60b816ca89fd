package testutil

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

// Dump renders a value for failure messages.  The rendering is deterministic
// (sorted map keys, no pointer addresses), so two Dumps of equal values are
// equal strings.
func Dump(val interface{}) string {
	spewConfig := spew.ConfigState{
		Indent:                  "  ",
		DisableMethods:          true,
		DisableCapacities:       true,
		DisablePointerAddresses: true,
		SortKeys:                true,
	}
	return spewConfig.Sdump(val)
}

// AssertEqualText compares two multi-line strings, and on mismatch reports a
// unified diff rather than dumping both strings whole.
func AssertEqualText(t *testing.T, exp, act string) bool {
	t.Helper()
	if exp == act {
		return true
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(exp),
		B:        difflib.SplitLines(act),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	t.Errorf("Text diff:\n%s", diff)
	return false
}

// AssertEqualDump compares two values through Dump, which keeps mismatches
// readable when the values are large nested structures.
func AssertEqualDump(t *testing.T, exp, act interface{}) bool {
	t.Helper()
	expStr := Dump(exp)
	actStr := Dump(act)
	if expStr == actStr {
		return true
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expStr),
		B:        difflib.SplitLines(actStr),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	t.Errorf("Dump diff:\n%s", diff)
	return false
}
