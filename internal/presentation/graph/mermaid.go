package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/sysml/pkg/domain"
)

// Overlay carries validation state to visualize on the diagram.
type Overlay struct {
	// Invalid lists elements with at least one finding.
	Invalid []string
	// Focus is highlighted on its own, e.g. the element being edited.
	Focus string
}

// GenerateMermaid produces a Mermaid flowchart of the model.
// It applies semantic shapes:
// - Package: [/Parallelogram/]
// - Definition: [Rectangle]
// - Usage and kernel feature: (Rounded)
// - If action: {Rhombus}
// - Loop action: [[Subroutine]]
// - Other actions: ([Stadium])
// Relationships become labelled edges; generalizations are dotted.
// Typing of usages by their definition is drawn as a thin dotted edge.
func GenerateMermaid(doc *domain.Document, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if doc == nil {
		return sb.String()
	}

	present := make(map[string]bool, len(doc.Elements))
	for _, e := range doc.Elements {
		present[e.Attrs().ID] = true
	}

	for _, e := range doc.Elements {
		attrs := e.Attrs()
		opener, closer := shape(e.Kind())
		label := attrs.Name
		if label == "" {
			label = attrs.ID
		}
		fmt.Fprintf(&sb, "    %s%s\"%s<br/><small>%s</small>\"%s\n",
			sanitizeMermaidID(attrs.ID), opener, escapeLabel(label), e.Kind(), closer)
	}

	for _, e := range doc.Elements {
		u, ok := domain.UsageOf(e)
		if !ok || u.DefinitionID == "" || !present[u.DefinitionID] {
			continue
		}
		fmt.Fprintf(&sb, "    %s -.- %s\n", sanitizeMermaidID(u.ID), sanitizeMermaidID(u.DefinitionID))
	}

	for _, r := range doc.Relationships {
		if !present[r.SourceID] || !present[r.TargetID] {
			continue
		}
		label := string(r.Type)
		if r.Name != "" {
			label = r.Name
		}
		arrow := fmt.Sprintf("-- \"%s\" -->", escapeLabel(label))
		if r.Type == domain.RelSpecialization || r.Type == domain.RelSubclassification {
			arrow = fmt.Sprintf("-. \"%s\" .->", escapeLabel(label))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(r.SourceID), arrow, sanitizeMermaidID(r.TargetID))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focus fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Invalid {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || seen[safeID] || !present[id] {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s invalid;\n", safeID)
		}
		if overlay.Focus != "" && present[overlay.Focus] {
			fmt.Fprintf(&sb, "    class %s focus;\n", sanitizeMermaidID(overlay.Focus))
		}
	}

	return sb.String()
}

func shape(k domain.Kind) (opener, closer string) {
	switch {
	case k == domain.KindPackage:
		return "[/", "/]"
	case k == domain.KindIfActionUsage:
		return "{", "}"
	case k == domain.KindLoopActionUsage:
		return "[[", "]]"
	case k.IsAction():
		return "([", "])"
	case k.IsDefinition():
		return "[", "]"
	}
	return "(", ")"
}

// escapeLabel replaces characters that end a quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
