package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shinji-kodama/calver/internal/revision"
)

// printUsage writes the CalVer usage text. today supplies the example
// default revision shown for an omitted previous version; flagUsages is
// the formatted option list appended at the end.
func printUsage(w io.Writer, program string, today time.Time, flagUsages string) error {
	example := revision.FromDate(today)

	_, err := fmt.Fprintf(w, `CalVer for Git
Usage: %[1]s --mode=<help|nextVersion|hotfix|monthStart> [previous version]

Generating the next version: %[1]s --mode=nextVersion [previous version]

If the [previous version] is omitted, the first revision for the year and
month are used (eg %[2]s)

Add one to the revision count and prints how to reconcile git, with special
instructions if the [previous version] was from a hotfix.

Prepare a hotfix: %[1]s --mode=hotfix <previous version>

Generates the next version in which to do development to complete the hotfix,
and prints git reconciliation instructions.

Prepare for next month: %[1]s --mode=monthStart [previous version]

Generates the next head branch for the next month, and git reconciliation
instructions.

Options:
%[3]s`, program, example, strings.TrimRight(flagUsages, "\n")+"\n")
	return err
}
