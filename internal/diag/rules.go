package diag

import (
	"fmt"
	"slices"
)

// Rule identifies the kind of finding. Values are grouped by pipeline stage
// in thousands, the same way the ID prefix is derived.
type Rule uint16

const (
	// Неизвестное правило
	UnknownRule Rule = 0

	// Реестр кодов
	RegInfo              Rule = 1000
	RegMalformedLine     Rule = 1001
	RegInvalidCode       Rule = 1002
	RegDuplicateCode     Rule = 1003
	RegReferenceMismatch Rule = 1004

	// Пояснения (long-form docs)
	DocInfo               Rule = 2000
	DocUnexpectedFile     Rule = 2001
	DocUnregistered       Rule = 2002
	DocIgnoreMarker       Rule = 2003
	DocNoCodeExample      Rule = 2004
	DocMissingDoctest     Rule = 2005
	DocExemptButTested    Rule = 2006
	DocMissingExplanation Rule = 2007

	// UI-тесты
	TstInfo            Rule = 3000
	TstMissingFixture  Rule = 3001
	TstExemptButExists Rule = 3002
	TstUnreadable      Rule = 3003
	TstCodeNotCited    Rule = 3004

	// Использование в исходниках компилятора
	UseInfo            Rule = 4000
	UseUndeclared      Rule = 4001
	UseNeverEmitted    Rule = 4002
	UseNoLongerEmitted Rule = 4003

	// Ошибки I/O
	IOReadFailed Rule = 5001
	IOWalkFailed Rule = 5002
)

var (
	ruleDescription = map[Rule]string{
		UnknownRule:           "Unknown rule",
		RegInfo:               "Registry information",
		RegMalformedLine:      "Registry line without ':' delimiter",
		RegInvalidCode:        "Malformed error code in registry",
		RegDuplicateCode:      "Duplicate error code",
		RegReferenceMismatch:  "Registry entry references the wrong explanation",
		DocInfo:               "Explanation information",
		DocUnexpectedFile:     "Unexpected file in explanations directory",
		DocUnregistered:       "Explanation without registry entry",
		DocIgnoreMarker:       "Explanation uses the ignore header",
		DocNoCodeExample:      "Explanation has no code example",
		DocMissingDoctest:     "Explanation lacks a compile_fail example with its own code",
		DocExemptButTested:    "Doctest exemption is out of date",
		DocMissingExplanation: "Registered code has no explanation",
		TstInfo:               "UI test information",
		TstMissingFixture:     "Error code has no UI test",
		TstExemptButExists:    "UI test exemption is out of date",
		TstUnreadable:         "UI test output cannot be read",
		TstCodeNotCited:       "UI test output does not contain its error code",
		UseInfo:               "Usage information",
		UseUndeclared:         "Error code used but not declared",
		UseNeverEmitted:       "Error code declared but never emitted",
		UseNoLongerEmitted:    "Error code marked no longer emitted is still used",
		IOReadFailed:          "File cannot be read",
		IOWalkFailed:          "Directory cannot be walked",
	}
)

// ID returns the stable textual identifier, e.g. DOC2005.
func (r Rule) ID() string {
	switch ir := int(r); {
	case ir >= 1000 && ir < 2000:
		return fmt.Sprintf("REG%04d", ir)
	case ir >= 2000 && ir < 3000:
		return fmt.Sprintf("DOC%04d", ir)
	case ir >= 3000 && ir < 4000:
		return fmt.Sprintf("TST%04d", ir)
	case ir >= 4000 && ir < 5000:
		return fmt.Sprintf("USE%04d", ir)
	case ir >= 5000 && ir < 6000:
		return fmt.Sprintf("IO%04d", ir)
	}
	return "TDY0000"
}

// Title returns a short human description of the rule.
func (r Rule) Title() string {
	desc, ok := ruleDescription[r]
	if !ok {
		return ruleDescription[UnknownRule]
	}
	return desc
}

func (r Rule) String() string {
	return fmt.Sprintf("[%s]: %s", r.ID(), r.Title())
}

// Rules returns every known rule in ascending order.
func Rules() []Rule {
	out := make([]Rule, 0, len(ruleDescription))
	for r := range ruleDescription {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
