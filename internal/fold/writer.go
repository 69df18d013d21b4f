package fold

import (
	"bufio"
	"fmt"
	"io"

	"github.com/stackfold/pkg/model"
)

// WriteCollapsed writes folded lines in the collapsed-stack text
// format: "<stack> <count>\n" per line, in the order given.
func WriteCollapsed(w io.Writer, lines []model.FoldedLine) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintf(bw, "%s %d\n", line.Stack, line.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}
