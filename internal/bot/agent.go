package bot

import (
	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// Agent represents an autonomous player seated at a faction.
type Agent struct {
	ID       string
	Name     string
	Faction  domain.Faction
	Strategy Brain
}

// Answer asks the agent to resolve a pending decision request. A failing
// strategy degrades to a pass so the phase can always advance.
func (a *Agent) Answer(game *domain.GameState, req phase.Request) phase.Response {
	if req.Faction != a.Faction || a.Strategy == nil {
		return passResponse(req)
	}
	resp, err := a.Strategy.Decide(game, req)
	if err != nil {
		return passResponse(req)
	}
	resp.Faction = a.Faction
	resp.Type = req.Type
	return resp
}

// OnGameEvent notifies the agent of a phase event.
func (a *Agent) OnGameEvent(ev phase.Event) {
	if a.Strategy != nil {
		a.Strategy.OnEvent(ev)
	}
}
