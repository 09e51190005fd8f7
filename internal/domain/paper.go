package domain

import "time"

// Paper is a candidate record fetched from arXiv for a single day.
// Evaluation stays nil until the priority scorer succeeds for the paper;
// its fields then serialize inline next to the metadata, matching the
// shape of the persisted daily record set.
type Paper struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	PDFURL      string    `json:"pdf_url,omitempty"`
	Authors     []string  `json:"authors,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	PublishedAt time.Time `json:"published_date"`
	UpdatedAt   time.Time `json:"updated_date"`

	// FullText is a transient judging input resolved on demand; it is
	// never persisted with the record.
	FullText string `json:"-"`

	*Evaluation
}

// Evaluation is the structured verdict produced by the judging model:
// three narrative fields plus five 1-10 dimension scores.
type Evaluation struct {
	TLDR                 string `json:"tldr"`
	Explanation          string `json:"explanation"`
	InterestsAlignment   string `json:"interests_alignment"`
	RelevanceScore       int    `json:"relevance_score"`
	NoveltyClaimScore    int    `json:"novelty_claim_score"`
	ClarityScore         int    `json:"clarity_score"`
	PotentialImpactScore int    `json:"potential_impact_score"`
	OverallPriorityScore int    `json:"overall_priority_score"`
}

// Scored reports whether the paper carries a full evaluation.
func (p Paper) Scored() bool {
	return p.Evaluation != nil
}

// Priority returns the ranking key; unscored papers sort lowest.
func (p Paper) Priority() int {
	if p.Evaluation == nil {
		return 0
	}
	return p.OverallPriorityScore
}
