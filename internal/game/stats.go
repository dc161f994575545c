package game

import "github.com/mitchelldurbincs/battleship/internal/game/core"

// CombatantStats counts the shots one combatant has fired in the current match
type CombatantStats struct {
	Player  int
	Name    string
	Shots   int // resolved shots, repeats excluded
	Hits    int // includes sinking shots
	Misses  int
	Sunk    int
	Repeats int // shots at cells that were already shot
}

// Accuracy is hits over resolved shots, zero before the first shot
func (s CombatantStats) Accuracy() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Shots)
}

func (s *CombatantStats) record(outcome core.AttackOutcome) {
	switch outcome.Kind {
	case core.OutcomeAlreadyShot:
		s.Repeats++
		return
	case core.OutcomeMiss:
		s.Misses++
	case core.OutcomeHit:
		s.Hits++
	case core.OutcomeSunk:
		s.Hits++
		s.Sunk++
	}
	s.Shots++
}

func (m *Match) resetStats() {
	for i, p := range m.players {
		m.stats[i] = CombatantStats{Player: p.Number(), Name: p.Name()}
	}
}

// Stats returns a copy of both combatants' statistics in seating order
func (m *Match) Stats() [2]CombatantStats {
	return m.stats
}
