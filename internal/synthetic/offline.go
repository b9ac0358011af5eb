package synthetic

import (
	"fmt"
	"math/rand"
)

// Phrase fragments for the offline generator. Combinations are assembled
// deterministically from an injected random source.
var (
	offlineOpeners = []string{
		"I would like to see",
		"Over the next five years we need",
		"My priority would be",
		"As a member of this community I want",
		"The most important change is",
		"Schools in this area urgently need",
	}
	offlineSubjects = []string{
		"smaller class sizes",
		"more investment in teacher training",
		"better special educational needs provision",
		"a modernised curriculum with practical skills",
		"improved school buildings and facilities",
		"more mental health support for pupils",
		"stronger links between schools and local employers",
		"fairer funding across all schools",
		"better access to technology in classrooms",
		"more extracurricular activities and sports",
	}
	offlineClosers = []string{
		"so every child has a fair start.",
		"because current provision falls short.",
		"and this should be funded properly.",
		"which would benefit the whole community.",
		"as parents have been asking for years.",
		"before the gap widens further.",
	}
)

// OfflineGenerator assembles template-based responses without any network
// dependency. It backs -offline pipeline runs and tests.
type OfflineGenerator struct {
	rng *rand.Rand
}

// NewOfflineGenerator returns a generator over the injected random source.
func NewOfflineGenerator(rng *rand.Rand) *OfflineGenerator {
	return &OfflineGenerator{rng: rng}
}

// Generate produces count synthetic responses. A numeric suffix keeps every
// response unique even when fragment combinations repeat.
func (g *OfflineGenerator) Generate(count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		opener := offlineOpeners[g.rng.Intn(len(offlineOpeners))]
		subject := offlineSubjects[g.rng.Intn(len(offlineSubjects))]
		closer := offlineClosers[g.rng.Intn(len(offlineClosers))]
		out = append(out, fmt.Sprintf("%s %s %s (response %d)", opener, subject, closer, i+1))
	}
	return out
}
