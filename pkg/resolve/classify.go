package resolve

// Default classification thresholds.
const (
	DefaultMatchThreshold = 0.75
	DefaultLowThreshold   = 0.60
)

// Thresholds bound the composite score bands.
type Thresholds struct {
	// Match is the inclusive lower bound of the MATCH band.
	Match float64
	// Low is the exclusive upper bound of the LOW_CONFIDENCE band.
	Low float64
}

// DefaultThresholds returns 0.75 / 0.60.
func DefaultThresholds() Thresholds {
	return Thresholds{Match: DefaultMatchThreshold, Low: DefaultLowThreshold}
}

// ClassifiedPair is a scored pair with its final status.
type ClassifiedPair struct {
	ScoredPair
	Status Status
}

// Key returns the identity key of the pair's first record, or "" when missing.
func (c ClassifiedPair) Key() string {
	return c.A.Key.String
}

// Evidence is everything the rule table looks at.
type Evidence struct {
	KeyMissing   bool
	Composite    float64
	BirthDiffers bool
	SexDiffers   bool
}

// Classifier applies the priority-ordered rule table.
type Classifier struct {
	Thresholds Thresholds
}

// NewClassifier returns a classifier with t; a zero Thresholds value means the defaults.
func NewClassifier(t Thresholds) *Classifier {
	if t == (Thresholds{}) {
		t = DefaultThresholds()
	}
	return &Classifier{Thresholds: t}
}

// Decide returns the status of the first matching rule. It is total.
func (c *Classifier) Decide(e Evidence) Status {
	switch {
	case e.KeyMissing:
		return StatusMissingKey
	case e.Composite >= c.Thresholds.Match:
		return StatusMatch
	case e.Composite < c.Thresholds.Low:
		return StatusLowConfidence
	case e.BirthDiffers && e.SexDiffers:
		return StatusConflictingAttributes
	default:
		return StatusNeedsNameReview
	}
}

// Classify derives the evidence of sp and assigns its status.
func (c *Classifier) Classify(sp ScoredPair) ClassifiedPair {
	status := c.Decide(Evidence{
		KeyMissing:   !sp.A.HasKey(),
		Composite:    sp.Composite,
		BirthDiffers: sp.A.BirthToken != sp.B.BirthToken,
		SexDiffers:   sp.A.Sex != sp.B.Sex,
	})
	return ClassifiedPair{ScoredPair: sp, Status: status}
}
