package sector

import "testing"

func TestClassifySemanticFact(t *testing.T) {
	primary, active := Classify("Paris is the capital of France", nil, false)
	if primary != Semantic {
		t.Fatalf("expected semantic primary, got %s", primary)
	}
	if len(active) != 1 || active[0] != Semantic {
		t.Fatalf("expected simple mode active = [semantic], got %v", active)
	}
}

func TestClassifyEpisodicWithTimeKeywords(t *testing.T) {
	primary, _ := Classify("Yesterday we deployed the new version", nil, false)
	if primary != Episodic {
		t.Fatalf("expected episodic primary, got %s", primary)
	}
}

func TestClassifyProceduralSteps(t *testing.T) {
	primary, _ := Classify("Step 1: configure the database. Then run the migration.", nil, false)
	if primary != Procedural {
		t.Fatalf("expected procedural primary, got %s", primary)
	}
}

func TestClassifyTagHintOverrides(t *testing.T) {
	primary, _ := Classify("some ambiguous text", []string{"rule"}, false)
	if primary != Procedural {
		t.Fatalf("expected tag hint to push procedural, got %s", primary)
	}
}

func TestActiveAdvancedModeThreshold(t *testing.T) {
	scores := map[Sector]float64{
		Semantic:   10,
		Episodic:   5,
		Procedural: 1,
		Emotional:  0,
		Reflective: 4,
	}
	active := Active(scores, Semantic, true)
	found := map[Sector]bool{}
	for _, s := range active {
		found[s] = true
	}
	if !found[Semantic] || !found[Episodic] || !found[Reflective] {
		t.Fatalf("expected semantic/episodic/reflective active, got %v", active)
	}
	if found[Procedural] || found[Emotional] {
		t.Fatalf("expected procedural/emotional below threshold, got %v", active)
	}
}

func TestValid(t *testing.T) {
	if !Valid(Semantic) || Valid(Sector("bogus")) {
		t.Fatalf("Valid() behaved incorrectly")
	}
}
