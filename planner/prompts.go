package planner

import (
	"fmt"
	"strings"

	"github.com/estateflow/orchestrator/types"
	"github.com/estateflow/orchestrator/utils"
)

// Natural-language instructions bundled with each task. The downstream
// agents are prompt-driven, so the texts spell out the expected output
// shape per stage.

func promptSearch(slots types.Data) string {
	raw, err := utils.Serialize(slots)
	if err != nil {
		raw = []byte("{}")
	}
	return strings.Join([]string{
		"Search for real estate listings matching the user's criteria.",
		fmt.Sprintf("Criteria (raw slots): %s", string(raw)),
		"Map slots to provider query params. Return up to 25 high-quality candidates with fields: id, title, location, price_inr, source, rera_status, builder_name.",
		"If budget missing, still retrieve representative spectrum. If location vague (e.g., 'metro'), interpret as near transit hubs.",
	}, "\n")
}

func promptLegal() string {
	return strings.Join([]string{
		"Perform regulatory & compliance (legal_check) screening over candidate listings.",
		"Input listing_ids come from previous search task.",
		"Check: RERA registration, land title clarity, litigation flags, builder reputation signals, embargo / restricted zones.",
		"Output JSON per listing id with fields: listing_id, rera_status, legal_risk_level (LOW|MEDIUM|HIGH), issues (array of short codes).",
	}, "\n")
}

func promptValuation() string {
	return strings.Join([]string{
		"Run valuation_analysis for each candidate listing to estimate fair price range.",
		"Use comparable sales, locality average PSF, builder track record.",
		"Output: listing_id, estimated_value_inr, low_inr, high_inr, valuation_confidence (0-1), methodology_notes (short).",
	}, "\n")
}

func promptVerification() string {
	return strings.Join([]string{
		"Execute verification_scan to detect anomalies or fraud patterns in candidate listings.",
		"Heuristics: price too low relative to comps, duplicate contact numbers, suspicious recently created builder entity.",
		"Output: listing_id, anomaly_score (0-1), flags (array of short strings).",
	}, "\n")
}

func promptSummary(taskIDs []string) string {
	return strings.Join([]string{
		"Synthesize results across enrichment tasks into a concise user-facing summary.",
		fmt.Sprintf("Aggregate from tasks: %s.", strings.Join(taskIDs, ", ")),
		"Highlight top 5 listings (balanced by legal risk LOW & high valuation confidence).",
		"Include any HIGH risk warnings and valuation ranges. Provide next recommended user actions.",
	}, "\n")
}

func promptGeneric() string {
	return "Handle the user request generically; intent was not recognized with confidence. " +
		"Extract any actionable real-estate signals."
}
