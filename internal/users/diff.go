package users

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/masomo/roster/internal/api"
	"github.com/masomo/roster/internal/ui/styles"
)

// describe renders the editable fields one per line so edits diff cleanly.
func describe(uu api.UpdateUser) string {
	var sb strings.Builder
	sb.WriteString("name: " + uu.Name + "\n")
	sb.WriteString("username: " + uu.Username + "\n")
	sb.WriteString("email: " + uu.Email + "\n")
	sb.WriteString("roles: " + strings.Join(uu.Roles, ", ") + "\n")
	if uu.IsActive != nil {
		sb.WriteString("active: " + yesNo(*uu.IsActive) + "\n")
	}
	if uu.Password != "" {
		sb.WriteString("password: ********\n")
	}
	return sb.String()
}

// Diff lists the fields that differ between before and after as "-" and
// "+" lines. It is empty when nothing changed.
func Diff(before, after api.UpdateUser) string {
	dmp := diffmatchpatch.New()
	oldRunes, newRunes, lineArray := dmp.DiffLinesToRunes(describe(before), describe(after))
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var sb strings.Builder
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				sb.WriteString(styles.Render(styles.DiffAdd, "+ "+line))
			case diffmatchpatch.DiffDelete:
				sb.WriteString(styles.Render(styles.DiffRemove, "- "+line))
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
