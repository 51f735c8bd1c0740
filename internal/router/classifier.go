package router

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Interrupt types that always mean the agent is waiting for a decision.
const (
	InterruptHITLGate         = "hitl_gate"
	InterruptPlanningReview   = "planning_review"
	InterruptGenerationReview = "generation_review"
	InterruptToolResultReview = "tool_result_review"
)

var approvalInterruptTypes = sets.New(
	InterruptHITLGate,
	InterruptPlanningReview,
	InterruptGenerationReview,
	InterruptToolResultReview,
)

var approvalKeywords = []string{
	"approve",
	"approval",
	"please review",
	"review the",
	"confirm",
	"proceed with",
	"do you want to proceed",
	"shall i proceed",
	"should i proceed",
	"accept or reject",
	"approve or reject",
	"ready to deploy",
}

var informationalKeywords = []string{
	"how can i help",
	"what would you like",
	"could you provide",
	"please provide",
	"can you tell me",
	"which namespace",
	"more details",
	"more information",
	"let me know",
}

// IsApprovalRequest decides whether a request for user input is an approval
// gate. Checks run in order and the first signal wins: a known interrupt type
// in metadata, then an approval phrase, then an informational phrase. With no
// signal the answer is false, so Approve and Reject buttons only appear when
// something asked for them.
func IsApprovalRequest(content string, metadata map[string]interface{}) bool {
	if it, ok := metadata[MetadataInterruptType].(string); ok && approvalInterruptTypes.Has(it) {
		return true
	}

	lower := strings.ToLower(content)
	for _, kw := range approvalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range informationalKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return false
}
