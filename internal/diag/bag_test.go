package diag

import (
	"testing"
)

func TestBagUnlimitedByDefault(t *testing.T) {
	bag := NewBag(0)
	for i := 0; i < 1000; i++ {
		if !bag.Add(NewWarning(DocNoCodeExample, At("x.md"), "w")) {
			t.Fatalf("Add rejected finding #%d on an unlimited bag", i)
		}
	}
	if bag.Len() != 1000 {
		t.Fatalf("Len = %d, want 1000", bag.Len())
	}
	if bag.HasErrors() {
		t.Fatal("no errors were added")
	}
	if !bag.HasWarnings() {
		t.Fatal("warnings were added")
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	bag.Add(NewError(UseUndeclared, At("a.rs"), "one"))
	bag.Add(NewError(UseUndeclared, At("a.rs"), "two"))
	if bag.Add(NewError(UseUndeclared, At("a.rs"), "three")) {
		t.Fatal("expected limit to reject the third finding")
	}
	if bag.Cap() != 2 {
		t.Fatalf("Cap = %d, want 2", bag.Cap())
	}
}

func TestBagCountsAndFilter(t *testing.T) {
	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	ReportError(r, UseNeverEmitted, At("reg.rs"), "never emitted").WithCode("E0001").Emit()
	ReportWarning(r, UseNoLongerEmitted, At("reg.rs"), "still used").WithCode("E0002").Emit()
	b := ReportError(r, RegDuplicateCode, At("reg.rs"), "dup")
	b.Emit()
	b.Emit() // повторный Emit игнорируется

	if bag.Len() != 3 {
		t.Fatalf("Len = %d, want 3", bag.Len())
	}
	if bag.Count(SevError) != 2 || bag.Count(SevWarning) != 1 {
		t.Fatalf("counts: errors=%d warnings=%d", bag.Count(SevError), bag.Count(SevWarning))
	}
	errs := bag.Errors()
	if errs.Len() != 2 || errs.Items()[0].Code != "E0001" {
		t.Fatalf("Errors() = %+v", errs.Items())
	}
}

func TestBagMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(UseUndeclared, At("a.rs"), "a"))
	b := NewBag(0)
	b.Add(NewError(UseUndeclared, At("b.rs"), "b"))
	b.Add(NewError(UseUndeclared, At("c.rs"), "c"))
	a.Merge(b)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Fatalf("after merge Len=%d Cap=%d", a.Len(), a.Cap())
	}
	if a.Items()[2].Primary.Path != "c.rs" {
		t.Fatalf("merge must preserve order, got %+v", a.Items())
	}
}

func TestRuleIDs(t *testing.T) {
	cases := map[Rule]string{
		RegDuplicateCode:      "REG1003",
		DocMissingDoctest:     "DOC2005",
		TstCodeNotCited:       "TST3004",
		UseNeverEmitted:       "USE4002",
		IOReadFailed:          "IO5001",
		UnknownRule:           "TDY0000",
		DocMissingExplanation: "DOC2007",
	}
	for rule, want := range cases {
		if got := rule.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", rule, got, want)
		}
	}
	if Rule(9999).Title() != "Unknown rule" {
		t.Errorf("unknown rule title = %q", Rule(9999).Title())
	}
	rules := Rules()
	for i := 1; i < len(rules); i++ {
		if rules[i-1] >= rules[i] {
			t.Fatalf("Rules() not sorted: %v", rules)
		}
	}
}
