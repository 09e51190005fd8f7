package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"PaperRadar/internal/domain"
)

// rawEvaluation mirrors domain.Evaluation with pointer fields so that
// missing keys are distinguishable from zero values.
type rawEvaluation struct {
	TLDR                 *string `json:"tldr"`
	Explanation          *string `json:"explanation"`
	InterestsAlignment   *string `json:"interests_alignment"`
	RelevanceScore       *int    `json:"relevance_score"`
	NoveltyClaimScore    *int    `json:"novelty_claim_score"`
	ClarityScore         *int    `json:"clarity_score"`
	PotentialImpactScore *int    `json:"potential_impact_score"`
	OverallPriorityScore *int    `json:"overall_priority_score"`
}

// ParseEvaluation turns a raw model answer into a structured evaluation.
// A fenced code block wrapper is stripped before parsing, and answers
// that are almost-JSON get one repair attempt before being rejected.
func ParseEvaluation(answer string) (domain.Evaluation, error) {
	payload := stripCodeFence(answer)

	var raw rawEvaluation
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(payload)
		if repairErr != nil {
			return domain.Evaluation{}, fmt.Errorf("parse evaluation: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			return domain.Evaluation{}, fmt.Errorf("parse repaired evaluation: %w", err)
		}
	}

	if err := raw.validate(); err != nil {
		return domain.Evaluation{}, err
	}

	return domain.Evaluation{
		TLDR:                 *raw.TLDR,
		Explanation:          *raw.Explanation,
		InterestsAlignment:   *raw.InterestsAlignment,
		RelevanceScore:       *raw.RelevanceScore,
		NoveltyClaimScore:    *raw.NoveltyClaimScore,
		ClarityScore:         *raw.ClarityScore,
		PotentialImpactScore: *raw.PotentialImpactScore,
		OverallPriorityScore: *raw.OverallPriorityScore,
	}, nil
}

func (r rawEvaluation) validate() error {
	missing := []string{}
	if r.TLDR == nil {
		missing = append(missing, "tldr")
	}
	if r.Explanation == nil {
		missing = append(missing, "explanation")
	}
	if r.InterestsAlignment == nil {
		missing = append(missing, "interests_alignment")
	}
	if r.RelevanceScore == nil {
		missing = append(missing, "relevance_score")
	}
	if r.NoveltyClaimScore == nil {
		missing = append(missing, "novelty_claim_score")
	}
	if r.ClarityScore == nil {
		missing = append(missing, "clarity_score")
	}
	if r.PotentialImpactScore == nil {
		missing = append(missing, "potential_impact_score")
	}
	if r.OverallPriorityScore == nil {
		missing = append(missing, "overall_priority_score")
	}

	if len(missing) > 0 {
		return fmt.Errorf("evaluation missing keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// stripCodeFence removes a ```json ... ``` (or bare ```) wrapper when the
// model disregards the plain-JSON output requirement.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}

	return s
}
