package resolve

import (
	"sort"
	"strings"

	"github.com/m-mizutani/pika/pkg/model"
)

// BuildPrompt renders a linear prompt from the system instruction, the most
// recent limit turns of history, and the current user message. History is
// re-sorted oldest first regardless of retrieval order and bounded to the
// limit most recent turns before formatting. Individual messages are never
// truncated; if the total exceeds a model's input limit, that surfaces from
// the model adapter, not here.
func BuildPrompt(system string, history []*model.Turn, message string, limit int) string {
	sorted := make([]*model.Turn, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}

	parts := make([]string, 0, len(sorted)+3)
	parts = append(parts, "SYSTEM:\n"+strings.TrimSpace(system)+"\n")
	for _, turn := range sorted {
		parts = append(parts, strings.ToUpper(string(turn.Role))+":\n"+turn.Text+"\n")
	}
	parts = append(parts, "USER:\n"+message+"\n")
	parts = append(parts, "ASSISTANT:")

	return strings.Join(parts, "\n")
}
