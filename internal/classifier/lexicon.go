package classifier

// Word valences, roughly in [-1, 1]. Tuned for customer-feedback vocabulary;
// mirrors the complaint-token buckets used for dataset triage.
var defaultValence = map[string]float64{
	"amazing":      0.9,
	"awesome":      0.9,
	"excellent":    0.9,
	"fantastic":    0.9,
	"love":         0.8,
	"loved":        0.8,
	"great":        0.8,
	"perfect":      0.8,
	"wonderful":    0.8,
	"best":         0.7,
	"happy":        0.6,
	"helpful":      0.6,
	"good":         0.6,
	"easy":         0.5,
	"fast":         0.5,
	"friendly":     0.5,
	"intuitive":    0.5,
	"nice":         0.5,
	"reliable":     0.5,
	"smooth":       0.5,
	"useful":       0.5,
	"fine":         0.3,
	"okay":         0.1,
	"ok":           0.1,
	"decent":       0.2,
	"average":      0.0,
	"mediocre":     -0.3,
	"slow":         -0.5,
	"expensive":    -0.5,
	"confusing":    -0.5,
	"difficult":    -0.5,
	"hard":         -0.4,
	"buggy":        -0.7,
	"annoying":     -0.6,
	"disappointed": -0.7,
	"disappointing": -0.7,
	"poor":         -0.6,
	"bad":          -0.6,
	"unreliable":   -0.6,
	"frustrating":  -0.7,
	"frustrated":   -0.7,
	"broken":       -0.8,
	"useless":      -0.8,
	"hate":         -0.9,
	"hated":        -0.9,
	"terrible":     -0.9,
	"awful":        -0.9,
	"horrible":     -0.9,
	"worst":        -0.9,
	"crash":        -0.7,
	"crashes":      -0.7,
	"crashed":      -0.7,
	"scam":         -0.9,
}

var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"isn't":   true,
	"isnt":    true,
	"wasn't":  true,
	"wasnt":   true,
	"don't":   true,
	"dont":    true,
	"didn't":  true,
	"didnt":   true,
	"can't":   true,
	"cant":    true,
	"won't":   true,
	"wont":    true,
	"hardly":  true,
	"barely":  true,
	"without": true,
}

var boosters = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"extremely":  1.5,
	"absolutely": 1.5,
	"so":         1.2,
	"totally":    1.3,
	"quite":      1.1,
	"slightly":   0.6,
	"somewhat":   0.7,
	"bit":        0.7,
}

// Topic rules in priority order; the first token hit in reading order tags
// the text with that theme.
var defaultTopics = []topicRule{
	{theme: "pricing", tokens: []string{"price", "prices", "pricing", "cost", "costs", "expensive", "cheap", "billing", "bill", "charge", "charged", "refund", "subscription", "fee", "fees"}},
	{theme: "support", tokens: []string{"support", "agent", "agents", "help", "helpdesk", "service", "staff", "team", "representative", "response", "ticket"}},
	{theme: "usability", tokens: []string{"interface", "ui", "ux", "design", "layout", "navigation", "usability", "intuitive", "confusing", "onboarding", "setup", "documentation", "docs"}},
	{theme: "performance", tokens: []string{"slow", "fast", "speed", "lag", "laggy", "performance", "loading", "crash", "crashes", "crashed", "freeze", "freezes", "timeout", "buggy", "bug", "bugs"}},
	{theme: "features", tokens: []string{"feature", "features", "functionality", "integration", "integrations", "api", "export", "import", "report", "reports", "dashboard"}},
	{theme: "delivery", tokens: []string{"delivery", "shipping", "shipment", "package", "arrived", "late", "tracking"}},
	{theme: "quality", tokens: []string{"quality", "broken", "defect", "defective", "damaged", "durable", "material", "build"}},
}
