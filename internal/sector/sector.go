// Package sector classifies a memory's text into one or more of the five
// HSG cognitive sectors (spec §4.1).
//
// The keyword table below is grounded on the seven-category taxonomy the
// teacher's memory-extraction LLM prompt defines
// (ai/memory/constants.go's memoryLLMSystemPrompt): "fact" and "entity"
// collapse onto semantic, "episodic" stays episodic, "rule"/"skill" fold
// into procedural, "preference" (with affect) folds into emotional, and
// first-person reflective context folds into reflective. Classification
// here is a local heuristic, not an LLM call - spec.md defines it as
// "regex/keyword hit density" plus structural cues.
package sector

import (
	"regexp"
	"strings"
)

type Sector string

const (
	Episodic   Sector = "episodic"
	Semantic   Sector = "semantic"
	Procedural Sector = "procedural"
	Emotional  Sector = "emotional"
	Reflective Sector = "reflective"
)

// All lists every sector in priority order for tie-breaking: semantic >
// episodic > procedural > reflective > emotional, per spec §4.1.
var All = []Sector{Semantic, Episodic, Procedural, Reflective, Emotional}

var priority = map[Sector]int{
	Semantic:   0,
	Episodic:   1,
	Procedural: 2,
	Reflective: 3,
	Emotional:  4,
}

var keywordTable = map[Sector][]string{
	Semantic: {
		"is", "are", "was", "were", "uses", "use", "lives", "works",
		"capital", "fact", "means", "defined", "equals", "consists",
		"located", "belongs",
	},
	Episodic: {
		"yesterday", "today", "tomorrow", "last week", "this morning",
		"on monday", "on tuesday", "on wednesday", "on thursday",
		"on friday", "on saturday", "on sunday", "deployed", "happened",
		"occurred", "met", "went",
	},
	Procedural: {
		"step", "first,", "then", "next,", "finally,", "always",
		"never", "how to", "procedure", "instructions", "workflow",
		"run", "execute", "configure",
	},
	Emotional: {
		"feel", "feels", "felt", "love", "hate", "afraid", "excited",
		"frustrated", "anxious", "happy", "sad", "angry", "worried",
		"proud", "grateful",
	},
	Reflective: {
		"i think", "i believe", "i realize", "i wonder", "in hindsight",
		"looking back", "i should have", "my takeaway", "lesson learned",
		"i feel that", "reflecting on",
	},
}

var dateRe = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4})\b`)
var stepRe = regexp.MustCompile(`(?i)\bstep\s+\d+\b`)
var imperativeRe = regexp.MustCompile(`(?i)^(do|run|execute|configure|install|build|deploy|write|create)\b`)
var firstPersonReasoningRe = regexp.MustCompile(`(?i)\bi (think|believe|realize|wonder|feel that)\b`)

// Scores returns a raw score per sector for the given text and tags.
func Scores(text string, tags []string) map[Sector]float64 {
	lower := strings.ToLower(text)
	scores := make(map[Sector]float64, len(All))

	for s, words := range keywordTable {
		var hits float64
		for _, w := range words {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		scores[s] = hits
	}

	// structural cues
	if dateRe.MatchString(text) {
		scores[Episodic] += 2
	}
	if stepRe.MatchString(text) || imperativeRe.MatchString(strings.TrimSpace(text)) {
		scores[Procedural] += 2
	}
	if firstPersonReasoningRe.MatchString(lower) {
		scores[Reflective] += 2
	}
	// text with no first-person "i" reads as a factual assertion
	if !strings.Contains(lower, " i ") && !strings.HasPrefix(lower, "i ") {
		scores[Semantic] += 0.5
	}

	// explicit tag hints always add three points to their sector
	for _, t := range tags {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "fact", "semantic":
			scores[Semantic] += 3
		case "episodic", "event", "timeline":
			scores[Episodic] += 3
		case "procedure", "procedural", "rule", "skill", "howto":
			scores[Procedural] += 3
		case "emotion", "emotional", "feeling":
			scores[Emotional] += 3
		case "reflection", "reflective", "insight":
			scores[Reflective] += 3
		}
	}

	return scores
}

// Primary picks the argmax sector, breaking ties by the fixed priority
// order semantic > episodic > procedural > reflective > emotional.
func Primary(scores map[Sector]float64) Sector {
	best := Semantic
	bestScore := -1.0
	for _, s := range All {
		sc := scores[s]
		if sc > bestScore || (sc == bestScore && priority[s] < priority[best]) {
			bestScore = sc
			best = s
		}
	}
	return best
}

// Active returns the set of sectors for which vectors should be written.
// In simple mode this is always {primary}. In advanced mode it is every
// sector whose score is at least 0.4 * the primary sector's score.
func Active(scores map[Sector]float64, primary Sector, advanced bool) []Sector {
	if !advanced {
		return []Sector{primary}
	}
	primaryScore := scores[primary]
	threshold := 0.4 * primaryScore
	active := []Sector{primary}
	for _, s := range All {
		if s == primary {
			continue
		}
		if primaryScore <= 0 {
			continue
		}
		if scores[s] >= threshold && scores[s] > 0 {
			active = append(active, s)
		}
	}
	return active
}

// Classify runs the full pipeline: classify(text, tags, meta) -> (primary,
// active).
func Classify(text string, tags []string, advanced bool) (Sector, []Sector) {
	scores := Scores(text, tags)
	primary := Primary(scores)
	active := Active(scores, primary, advanced)
	return primary, active
}

// DefaultSalience and DefaultDecayLambda give each sector its starting
// (salience, decay_lambda) pair, used by the HSG engine's write path
// step 4. Episodic and emotional memories fade fastest (specific events
// and feelings lose relevance quickly); semantic and procedural facts
// decay slowest since they tend to stay true; reflective sits in
// between since it's derived and already a distillation.
var DefaultSalience = map[Sector]float64{
	Semantic:   0.6,
	Episodic:   0.5,
	Procedural: 0.6,
	Emotional:  0.45,
	Reflective: 0.55,
}

var DefaultDecayLambda = map[Sector]float64{
	Semantic:   0.01,
	Episodic:   0.05,
	Procedural: 0.015,
	Emotional:  0.08,
	Reflective: 0.03,
}

// Valid reports whether s is one of the five recognized sectors.
func Valid(s Sector) bool {
	switch s {
	case Episodic, Semantic, Procedural, Emotional, Reflective:
		return true
	}
	return false
}
