package resolve

// keywordGroup maps free-text employment-type hints to the label fragment
// used to find the canonical concept. Groups are tested in order; the first
// group with a keyword present in the normalized text wins.
type keywordGroup struct {
	Keywords      []string
	LabelFragment string
}

// employmentTypeGroups is the fixed keyword table for employment-type
// resolution. Keywords and fragments are compared lowercase.
var employmentTypeGroups = []keywordGroup{
	{Keywords: []string{"sommarjobb", "feriejobb", "sommarvikariat", "summer"}, LabelFragment: "sommarjobb"},
	{Keywords: []string{"behovsanställning", "vid behov", "ring in", "intermittent", "on call"}, LabelFragment: "behovsanställning"},
	{Keywords: []string{"extrajobb", "extra arbete", "extrapersonal"}, LabelFragment: "extrajobb"},
	{Keywords: []string{"säsong", "seasonal"}, LabelFragment: "säsong"},
	{Keywords: []string{"vikariat", "vikarie", "substitute"}, LabelFragment: "vikariat"},
	{Keywords: []string{"frilans", "freelance"}, LabelFragment: "frilans"},
	{Keywords: []string{"tillsvidare", "fast anställning", "permanent"}, LabelFragment: "vanlig anställning"},
	{Keywords: []string{"heltid", "full time", "fulltime"}, LabelFragment: "vanlig anställning"},
}

// temporaryFamilyKeywords marks employment-type free text that implies a
// fixed-term duration default instead of the indefinite one.
var temporaryFamilyKeywords = []string{
	"behov", "extra", "frilans", "freelance",
	"säsong", "seasonal", "sommar", "feriejobb", "vikar",
}

// partTimeKeywords mark employment-type free text that defaults the
// worktime extent to part-time.
var partTimeKeywords = []string{"deltid", "part time", "part-time"}
