package vanilla

import (
	"fmt"
	"strings"

	"github.com/singampalli/ideaminds/pkg/placeholder"
)

func controlID(label string) string {
	key := placeholder.SubstitutionKey(strings.TrimSpace(label))
	if key == "" {
		return "im-field"
	}
	return "im-" + key
}

// uniqueID suffixes id with -2, -3, ... when it was already issued in used.
func uniqueID(used map[string]int, id string) string {
	used[id]++
	if used[id] == 1 {
		return id
	}
	for {
		candidate := fmt.Sprintf("%s-%d", id, used[id])
		if _, taken := used[candidate]; !taken {
			used[candidate] = 1
			return candidate
		}
		used[id]++
	}
}

func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.ContainsAny(token, `"'<>`) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// multiline reports whether a field should render as a textarea.
func multiline(metadata map[string]string) bool {
	return strings.EqualFold(strings.TrimSpace(metadata["input"]), "textarea")
}

// inputType returns the type attribute for single-line inputs.
func inputType(metadata map[string]string) string {
	if strings.EqualFold(strings.TrimSpace(metadata["cli.secret"]), "true") {
		return "password"
	}
	return "text"
}
