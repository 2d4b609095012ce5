package bot

import (
	"arrakis/internal/bot/brain"
	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// BotLevel selects a strategy tier.
type BotLevel int

const (
	BotLevelPassive BotLevel = iota
	BotLevelCautious
	BotLevelOpportunist
)

// ParseBotLevel maps the identity-file difficulty strings to a level.
func ParseBotLevel(difficulty string) BotLevel {
	switch difficulty {
	case "hard":
		return BotLevelOpportunist
	case "medium":
		return BotLevelCautious
	default:
		return BotLevelPassive
	}
}

// PassiveBot takes the path of least resistance: it never allies, never
// protects, and lets the worm do as it pleases.
type PassiveBot struct{}

func (b *PassiveBot) Decide(_ *domain.GameState, req phase.Request) (phase.Response, error) {
	switch req.Type {
	case phase.RequestProtectionDecision:
		return phase.Response{Faction: req.Faction, Type: req.Type, Action: phase.ActionAllowDevouring}, nil
	case phase.RequestWormRideDecision:
		return phase.Response{Faction: req.Faction, Type: req.Type, Action: phase.ActionWormDevour}, nil
	default:
		return passResponse(req), nil
	}
}

func (b *PassiveBot) OnEvent(phase.Event) {}

// CautiousBot keeps what it has: it shields allies, rides worms away from
// danger, and never changes its alliances.
type CautiousBot struct{}

func (b *CautiousBot) Decide(_ *domain.GameState, req phase.Request) (phase.Response, error) {
	switch req.Type {
	case phase.RequestProtectionDecision:
		return phase.Response{Faction: req.Faction, Type: req.Type, Action: phase.ActionProtectAlly}, nil
	case phase.RequestWormRideDecision:
		return phase.Response{Faction: req.Faction, Type: req.Type, Action: phase.ActionWormRide}, nil
	default:
		return passResponse(req), nil
	}
}

func (b *CautiousBot) OnEvent(phase.Event) {}

// OpportunistBot plays the table: it remembers who broke alliances and
// courts the most battered trustworthy faction when a Nexus opens.
type OpportunistBot struct {
	Memory *brain.GameMemory
}

// NewOpportunistBot returns an opportunist with fresh memory.
func NewOpportunistBot() *OpportunistBot {
	return &OpportunistBot{Memory: brain.NewMemory()}
}

func (b *OpportunistBot) Decide(g *domain.GameState, req phase.Request) (phase.Response, error) {
	switch req.Type {
	case phase.RequestProtectionDecision:
		return phase.Response{Faction: req.Faction, Type: req.Type, Action: phase.ActionProtectAlly}, nil
	case phase.RequestWormRideDecision:
		return phase.Response{Faction: req.Faction, Type: req.Type, Action: phase.ActionWormRide}, nil
	case phase.RequestAllianceDecision:
		if g.AllyOf(req.Faction) != "" {
			// Drop an ally who has a record of betrayal.
			if !b.Memory.Trustworthy(g.AllyOf(req.Faction)) {
				return phase.Response{Faction: req.Faction, Type: req.Type, Action: phase.ActionBreakAlliance}, nil
			}
			return passResponse(req), nil
		}
		if partner := b.pickPartner(g, req.Faction); partner != "" {
			return phase.Response{
				Faction: req.Faction,
				Type:    req.Type,
				Action:  phase.ActionFormAlliance,
				Data:    map[string]any{"partner": string(partner)},
			}, nil
		}
		return passResponse(req), nil
	default:
		return passResponse(req), nil
	}
}

// pickPartner prefers the unallied, trustworthy faction with the heaviest
// casualties: a desperate partner is a loyal one.
func (b *OpportunistBot) pickPartner(g *domain.GameState, self domain.Faction) domain.Faction {
	var best domain.Faction
	bestCasualties := -1
	for _, f := range g.Factions {
		if f == self || g.AllyOf(f) != "" || !b.Memory.Trustworthy(f) {
			continue
		}
		fs, ok := g.Players[f]
		if !ok {
			continue
		}
		if fs.Casualties > bestCasualties {
			best = f
			bestCasualties = fs.Casualties
		}
	}
	return best
}

func (b *OpportunistBot) OnEvent(ev phase.Event) {
	switch ev.Kind {
	case phase.EventShaiHuludAppeared:
		if payload, ok := ev.Payload.(phase.ShaiHuludAppearedPayload); ok && !payload.Ignored {
			b.Memory.RecordWorm(payload.Devours)
		}
	case phase.EventAllianceFormed:
		if payload, ok := ev.Payload.(phase.AlliancePayload); ok {
			b.Memory.RecordAllianceFormed(payload.Factions[0], payload.Factions[1])
		}
	case phase.EventAllianceBroken:
		if payload, ok := ev.Payload.(phase.AlliancePayload); ok {
			b.Memory.RecordAllianceBroken(payload.Factions[0], payload.Factions[1])
		}
	}
}
