package output

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Untyped rendering for payloads that did not decode into the models.

func (r *Renderer) looseList(rows []map[string]any, maxLines int) {
	for i, row := range rows {
		r.looseItem(row, i+1, maxLines)
	}
}

func (r *Renderer) looseItem(row map[string]any, index, maxLines int) {
	title := firstStr(row, "title", "display_name", "name", "conversation_id")
	if title == "" {
		title = "(untitled)"
	}
	prefix := ""
	if index > 0 {
		prefix = fmt.Sprintf("#%-2d ", index)
	}
	r.line(prefix + r.st.accent.Render(title))
	if author := nestedStr(row, "author", "name"); author != "" {
		r.line("   by " + r.st.author.Render(author))
	}
	for _, l := range wrap(firstStr(row, "content", "description", "message", "message_preview"), r.width-4, maxLines) {
		r.line("│  " + l)
	}
	if id := str(row["id"]); id != "" {
		r.line("└─ " + r.st.dim.Render("ID: "+id))
	}
	r.line()
}

func (r *Renderer) looseObject(m map[string]any) {
	b, err := json.MarshalIndent(m, "  ", "  ")
	if err != nil {
		return
	}
	r.line("  " + string(b))
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func firstStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(str(m[k])); s != "" {
			return s
		}
	}
	return ""
}

func nestedStr(m map[string]any, outer, inner string) string {
	if sub, ok := m[outer].(map[string]any); ok {
		return str(sub[inner])
	}
	return ""
}
