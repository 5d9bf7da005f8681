package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/validator"
)

// Report renders a Markdown summary of doc: element counts per kind,
// relationship counts per type, and the findings carried by validationErr.
func Report(title string, doc *domain.Document, validationErr error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	kinds := map[string]int{}
	for _, e := range doc.Elements {
		kinds[string(e.Kind())]++
	}
	types := map[string]int{}
	for _, r := range doc.Relationships {
		types[string(r.Type)]++
	}

	fmt.Fprintf(&sb, "## Elements (%d)\n\n", len(doc.Elements))
	writeCounts(&sb, "Kind", kinds)
	fmt.Fprintf(&sb, "## Relationships (%d)\n\n", len(doc.Relationships))
	writeCounts(&sb, "Type", types)

	findings := validator.ValidationErrors(validationErr)
	fmt.Fprintf(&sb, "## Findings (%d)\n\n", len(findings))
	if len(findings) == 0 {
		if validationErr != nil {
			fmt.Fprintf(&sb, "- %s\n", validationErr)
		} else {
			sb.WriteString("The model is valid.\n")
		}
		return sb.String()
	}
	for _, f := range findings {
		fmt.Fprintf(&sb, "- **%s** `%s`: %s\n", f.Rule, f.ElementID, f.Message)
	}
	return sb.String()
}

func writeCounts(sb *strings.Builder, header string, counts map[string]int) {
	if len(counts) == 0 {
		sb.WriteString("None.\n\n")
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(sb, "| %s | Count |\n|---|---|\n", header)
	for _, k := range keys {
		fmt.Fprintf(sb, "| %s | %d |\n", k, counts[k])
	}
	sb.WriteString("\n")
}
