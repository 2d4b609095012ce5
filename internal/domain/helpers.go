package domain

// GamePhase represents the lifecycle stage of a match.
type GamePhase string

const (
	// GamePhaseLobby is the pre-game state where factions are claimed.
	GamePhaseLobby GamePhase = "lobby"
	// GamePhasePlaying is the active game state.
	GamePhasePlaying GamePhase = "playing"
	// GamePhaseEnded is the state after a game concludes.
	GamePhaseEnded GamePhase = "ended"
)

// LabelPayload produces the values advertised in the match label.
type LabelPayload struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// ComputeLabel derives the advertised label from lobby state.
func ComputeLabel(phase GamePhase, claimedSeats int) LabelPayload {
	open := phase == GamePhaseLobby && claimedSeats < len(AllFactions())
	return LabelPayload{Open: open, Game: "arrakis", Phase: string(phase)}
}

// TotalForcesOnBoard sums a faction's forces across every location.
func TotalForcesOnBoard(fs *FactionState) int {
	total := 0
	for _, stack := range fs.OnBoard {
		total += stack.Count
	}
	return total
}

// ContainsCard reports whether the list holds an equal card.
func ContainsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
