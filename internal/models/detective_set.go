package models

// DetectiveSet groups detective cards matching one detective name, plus any
// wildcards attached to it. Its cards are owned by reference (set_id) and are
// deleted with the set.
type DetectiveSet struct {
	ID         int64   `json:"id"`
	GameID     int64   `json:"game_id"`
	Owner      int64   `json:"owner"`
	TurnPlayed int     `json:"turn_played"`
	Detectives []*Card `json:"detectives"`
}

// HasDetective reports whether the set contains a card with any of the given
// names.
func (s *DetectiveSet) HasDetective(names ...string) bool {
	for _, d := range s.Detectives {
		for _, n := range names {
			if d.Name == n {
				return true
			}
		}
	}
	return false
}

// HasAllDetectives reports whether every given name appears in the set.
func (s *DetectiveSet) HasAllDetectives(names ...string) bool {
	for _, n := range names {
		found := false
		for _, d := range s.Detectives {
			if d.Name == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
