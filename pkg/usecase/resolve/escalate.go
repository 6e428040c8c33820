package resolve

import "strings"

// escalationTriggers are phrases in a generated reply that indicate the
// conversation should be handed to a human agent
var escalationTriggers = []string{
	"escalate", "speak to human", "contact support", "human agent",
	"contact us", "need assistance", "supervisor", "manager",
	"security concern", "fraud", "hacked", "suspicious",
	"refund dispute", "damaged", "defective", "exception",
	"very upset", "angry", "frustrated",
}

// NeedsEscalation reports whether text contains any escalation trigger
// phrase. Matching is a case-insensitive substring scan; the function is
// pure and has no side effects.
func NeedsEscalation(text string) bool {
	lower := strings.ToLower(text)
	for _, trigger := range escalationTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
