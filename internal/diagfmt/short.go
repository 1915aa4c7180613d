package diagfmt

import (
	"fmt"
	"io"

	"plint/internal/diag"
)

// Short prints one line per diagnostic, suitable for editors and grep:
//
//	path:line:col: error: message [SEM3002]
func Short(w io.Writer, bag *diag.Bag, mode PathMode, base string) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s: %s [%s]\n", locString(d.Primary, mode, base), d.Severity.Label(), d.Message, d.Code.ID())
	}
}
