package validation

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// collectViolations flattens the cause tree of err into leaf violations,
// ordered by instance location.
func collectViolations(err *jsonschema.ValidationError) []Violation {
	out := make([]Violation, 0)
	walk(err, &out)

	slices.SortStableFunc(out, func(a, b Violation) int {
		return comparePaths(a.Path, b.Path)
	})

	return out
}

// comparePaths orders locations token by token; array indices compare
// numerically so "10" follows "3".
func comparePaths(a, b []string) int {
	for idx, n := 0, min(len(a), len(b)); idx < n; idx++ {
		if c := compareTokens(a[idx], b[idx]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareTokens(a, b string) int {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return cmp.Compare(x, y)
	}
	return strings.Compare(a, b)
}

func walk(err *jsonschema.ValidationError, out *[]Violation) {
	switch k := err.ErrorKind.(type) {
	case *kind.AnyOf, *kind.OneOf, *kind.Contains:
		// per-branch or per-item failures are noise, report the keyword itself
		*out = append(*out, newViolation(err.InstanceLocation, k))
		return
	case *kind.Required:
		for _, missing := range k.Missing {
			*out = append(*out, newViolation(err.InstanceLocation, &kind.Required{Missing: []string{missing}}))
		}
		return
	}

	if len(err.Causes) == 0 {
		*out = append(*out, newViolation(err.InstanceLocation, err.ErrorKind))
		return
	}

	for _, cause := range err.Causes {
		walk(cause, out)
	}
}

func newViolation(location []string, k jsonschema.ErrorKind) Violation {
	return Violation{
		Path:    slices.Clone(location),
		Keyword: strings.Join(k.KeywordPath(), "/"),
		Message: k.LocalizedString(printer),
	}
}
