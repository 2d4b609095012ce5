package bot

import (
	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// Brain is the interface all bot strategies implement. Decide answers a
// pending decision request for the faction the brain is playing; OnEvent
// lets the brain observe the game as it unfolds.
type Brain interface {
	Decide(game *domain.GameState, req phase.Request) (phase.Response, error)
	OnEvent(ev phase.Event)
}

// passResponse is the safe fallback every strategy can answer with.
func passResponse(req phase.Request) phase.Response {
	return phase.Response{
		Faction: req.Faction,
		Type:    req.Type,
		Action:  phase.ActionPass,
		Passed:  true,
	}
}
