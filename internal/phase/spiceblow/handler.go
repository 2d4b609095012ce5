package spiceblow

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// PhaseName is the name this handler reports to the orchestrator.
const PhaseName = "spice_blow"

// NextPhaseName is the phase that follows the Spice Blow in the turn order.
const NextPhaseName = "choam_charity"

var (
	ErrBadContext       = errors.New("spice blow: context is not a spice blow context")
	ErrFactionNotInGame = errors.New("spice blow: faction not in game")
	ErrInvalidDecision  = errors.New("spice blow: invalid decision")
)

// Options tune the handler's variant rules.
type Options struct {
	// GreatWormVariant enables the one-shot world-state flip once enough
	// worms have appeared over the whole game.
	GreatWormVariant bool
	// GreatWormThreshold is the global worm count that triggers the flip.
	GreatWormThreshold int
}

// Handler is the resumable Spice Blow phase engine. It holds no game or
// phase state between calls; the driver owns the GameState and re-supplies
// the Context from the previous StepResult.
type Handler struct {
	rng  *rand.Rand
	log  phase.Logger
	opts Options
}

// NewHandler constructs a Spice Blow handler. rng may be nil for a
// time-seeded default; log may be nil to discard.
func NewHandler(rng *rand.Rand, log phase.Logger, opts Options) *Handler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = phase.NopLogger{}
	}
	if opts.GreatWormThreshold <= 0 {
		opts.GreatWormThreshold = 3
	}
	return &Handler{rng: rng, log: log, opts: opts}
}

// Name implements phase.Handler.
func (h *Handler) Name() string { return PhaseName }

// Initialize creates the fresh phase context. No cards are drawn yet; the
// first ProcessStep call starts revealing deck A.
func (h *Handler) Initialize(g *domain.GameState) phase.StepResult {
	return phase.StepResult{State: g, Context: NewContext()}
}

// ProcessStep advances the phase. It checks, in fixed priority order: a
// pending protection decision, a pending-but-unresolved Nexus, a pending
// worm-ride choice; otherwise it keeps drawing deck A, then deck B under
// advanced rules, and finally declares the phase complete.
func (h *Handler) ProcessStep(g *domain.GameState, ctxAny any, responses []phase.Response) (phase.StepResult, error) {
	ctx, ok := ctxAny.(*Context)
	if !ok || ctx == nil {
		return phase.StepResult{}, ErrBadContext
	}
	if ctx.Step == StateComplete {
		return h.complete(g, ctx, nil), nil
	}

	var events []phase.Event

	// Priority 1: a pending protection decision.
	if ctx.Step == StateAwaitingProtectionDecision {
		resp, found := findResponse(responses, phase.RequestProtectionDecision, domain.FactionFremen)
		if !found {
			return h.suspend(g, ctx, events, []phase.Request{h.protectionRequest(g, *ctx.PendingDevourLocation)}), nil
		}
		evs, err := h.resumeProtection(g, ctx, resp)
		events = append(events, evs...)
		if err != nil {
			return phase.StepResult{}, err
		}
	}

	// Priority 2: a pending-but-unresolved negotiation.
	if ctx.NexusTriggered && !ctx.NexusResolved {
		evs, reqs, err := h.applyNexusResponses(g, ctx, responses)
		events = append(events, evs...)
		if err != nil {
			return phase.StepResult{}, err
		}
		if len(reqs) > 0 {
			return h.suspend(g, ctx, events, reqs), nil
		}
	}

	// Priority 3: a pending worm-ride choice.
	if ctx.Step == StateAwaitingWormRideChoice {
		resp, found := findResponse(responses, phase.RequestWormRideDecision, domain.FactionFremen)
		if !found {
			return h.suspend(g, ctx, events, []phase.Request{h.wormRideRequest(*ctx.PendingDevourLocation)}), nil
		}
		evs, reqs, err := h.resumeWormRide(g, ctx, resp)
		events = append(events, evs...)
		if err != nil {
			return phase.StepResult{}, err
		}
		if len(reqs) > 0 {
			return h.suspend(g, ctx, events, reqs), nil
		}
	}

	// Continue drawing. A resumed worm chain picks up here automatically:
	// the deck it was interrupted on is still unrevealed.
	if !ctx.CardARevealed {
		evs, reqs := h.reveal(g, ctx, domain.DeckA)
		events = append(events, evs...)
		if len(reqs) > 0 {
			return h.suspend(g, ctx, events, reqs), nil
		}
	}
	if g.AdvancedRules && !ctx.CardBRevealed {
		ctx.Step = StateDrawingDeckB
		evs, reqs := h.reveal(g, ctx, domain.DeckB)
		events = append(events, evs...)
		if len(reqs) > 0 {
			return h.suspend(g, ctx, events, reqs), nil
		}
	}

	ctx.Step = StateComplete
	h.verifyPlacements(g)
	return h.complete(g, ctx, events), nil
}

// Cleanup folds the first-turn set-aside worms back into both decks and
// hands the game record back to the driver.
func (h *Handler) Cleanup(g *domain.GameState, ctxAny any) *domain.GameState {
	ctx, ok := ctxAny.(*Context)
	if !ok || ctx == nil {
		return g
	}
	if len(ctx.TurnOneWormsSetAside) > 0 {
		g.ReshuffleTurnOneWorms(ctx.TurnOneWormsSetAside, h.rng)
		ctx.TurnOneWormsSetAside = nil
	}
	return g
}

// resumeProtection applies the Fremen protect/allow answer and runs the
// suspended devour to completion.
func (h *Handler) resumeProtection(g *domain.GameState, ctx *Context, resp phase.Response) ([]phase.Event, error) {
	switch {
	case resp.Action == phase.ActionProtectAlly && !resp.Passed:
		ctx.FremenProtectionDecision = ProtectionProtect
	case resp.Action == phase.ActionAllowDevouring || resp.Passed:
		ctx.FremenProtectionDecision = ProtectionAllow
	default:
		return nil, fmt.Errorf("%w: %q for protection decision", ErrInvalidDecision, resp.Action)
	}

	events := h.executeDevour(g, ctx, *ctx.PendingDevourLocation)
	ctx.clearPendingDevour()
	ctx.Step = StateInit
	return events, nil
}

// resumeWormRide applies the Fremen ride/devour answer. A "devour" answer
// runs the Devour Executor, which may itself suspend on the protection rule.
func (h *Handler) resumeWormRide(g *domain.GameState, ctx *Context, resp phase.Response) ([]phase.Event, []phase.Request, error) {
	loc := *ctx.PendingDevourLocation
	deck := ctx.PendingDevourDeck

	switch {
	case resp.Action == phase.ActionWormRide && !resp.Passed:
		ctx.FremenWormChoice = WormChoiceRide
		g.FremenRideBonus = true
		events := []phase.Event{{Kind: phase.EventWormRideChosen, Payload: phase.WormRideChosenPayload{Faction: domain.FactionFremen, Ride: true}}}
		ctx.clearPendingDevour()
		ctx.Step = StateInit
		return events, nil, nil
	case resp.Action == phase.ActionWormDevour || resp.Passed:
		ctx.FremenWormChoice = WormChoiceDevour
		events := []phase.Event{{Kind: phase.EventWormRideChosen, Payload: phase.WormRideChosenPayload{Faction: domain.FactionFremen, Ride: false}}}
		evs, reqs := h.devourAt(g, ctx, loc, deck)
		events = append(events, evs...)
		if len(reqs) > 0 {
			return events, reqs, nil
		}
		ctx.clearPendingDevour()
		ctx.Step = StateInit
		return events, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q for worm ride decision", ErrInvalidDecision, resp.Action)
	}
}

// verifyPlacements is the fail-open post-condition scan: no spice may sit
// on a storm-occluded location once the phase completes. Violations are
// logged, never thrown, so a rule bug cannot halt a playable game.
func (h *Handler) verifyPlacements(g *domain.GameState) {
	for _, pile := range g.SpiceOnBoard {
		def, ok := domain.LookupTerritory(pile.Location.Territory)
		if !ok {
			h.log.Warn("spice blow: spice at unknown territory %q", pile.Location.Territory)
			continue
		}
		if domain.StormOccludes(def, pile.Location.Sector, g.StormSector) {
			h.log.Error("spice blow: rule violation, %d spice at storm-occluded %s sector %d",
				pile.Amount, pile.Location.Territory, pile.Location.Sector)
		}
	}
}

func (h *Handler) suspend(g *domain.GameState, ctx *Context, events []phase.Event, reqs []phase.Request) phase.StepResult {
	return phase.StepResult{State: g, PendingRequests: reqs, Events: events, Context: ctx}
}

func (h *Handler) complete(g *domain.GameState, ctx *Context, events []phase.Event) phase.StepResult {
	return phase.StepResult{
		State:         g,
		PhaseComplete: true,
		NextPhase:     NextPhaseName,
		Events:        events,
		Context:       ctx,
	}
}

// findResponse picks the first response matching the request type and
// addressed faction. Unrelated responses are ignored, not errors: drivers
// may batch answers.
func findResponse(responses []phase.Response, rt phase.RequestType, f domain.Faction) (phase.Response, bool) {
	for _, resp := range responses {
		if resp.Type == rt && resp.Faction == f {
			return resp, true
		}
	}
	return phase.Response{}, false
}
