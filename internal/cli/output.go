package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fekuna/omnipos-menu-service/internal/migration"
)

// OutputFormatter prints run reports as text or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Report prints r. Changes are sorted by id because batches finish in any
// order.
func (f *OutputFormatter) Report(r migration.Report) error {
	sort.Slice(r.Changes, func(i, j int) bool { return r.Changes[i].ID < r.Changes[j].ID })

	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(r)
	}

	for _, c := range r.Changes {
		switch {
		case c.From != "" || c.To != "":
			fmt.Fprintf(f.Writer, "%s (%s): %s -> %s\n", c.ID, c.Name, c.From, c.To)
		default:
			fmt.Fprintf(f.Writer, "%s (%s)\n", c.ID, c.Name)
		}
	}
	_, err := fmt.Fprintf(f.Writer, "processed=%d changed=%d skipped=%d failed=%d\n",
		r.Processed, r.Changed, r.Skipped, r.Failed)
	return err
}
