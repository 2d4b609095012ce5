package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"arrakis/internal/app"
	"arrakis/internal/bot"
	"arrakis/internal/config"
	"arrakis/internal/domain"
	"arrakis/internal/phase"
	"arrakis/internal/phase/spiceblow"
	"arrakis/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// solariPerSpice is the wallet credit granted per spice held at settlement.
const solariPerSpice = 100

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Claims    map[domain.Faction]string   `json:"claims"`   // faction -> user ID, missing means unclaimed
	OwnerID   string                      `json:"owner_id"` // user ID of the match owner (always a human)
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // user ID -> presence for targeted messaging

	App      *app.Service      `json:"-"`
	Game     *domain.GameState `json:"-"` // nil while in lobby
	Phase    phase.Handler     `json:"-"` // current phase engine
	PhaseCtx any               `json:"-"` // phase-private context between steps

	Pending    []phase.Request                   `json:"-"`            // outstanding decision requests
	Responses  map[domain.Faction]phase.Response `json:"-"`            // collected answers keyed by faction
	NextTurnAt int64                             `json:"next_turn_at"` // tick when the next turn's phase starts

	BotsEnabled      bool                     `json:"bots_enabled"`
	BotMinDelay      int                      `json:"bot_min_delay"`       // min ticks an agent waits before answering
	BotMaxDelay      int                      `json:"bot_max_delay"`       // max ticks an agent waits before answering
	BotAutoFillDelay int                      `json:"bot_auto_fill_delay"` // ticks before agents fill a solo human lobby
	BotActAt         map[domain.Faction]int64 `json:"-"`                   // tick when each agent answers its pending request
	LonePlayerSince  int64                    `json:"lone_player_since"`   // tick when a single human started waiting
	Bots             map[string]*bot.Agent    `json:"-"`                   // user ID -> agent

	Economy ports.EconomyPort `json:"-"`
	Settled bool              `json:"settled"` // spice already paid out as solari

	rng *rand.Rand
}

// ClaimedCount returns how many factions have an occupant.
func (ms *MatchState) ClaimedCount() int {
	return len(ms.Claims)
}

// HumanCount returns how many claimed factions belong to humans.
func (ms *MatchState) HumanCount() int {
	count := 0
	for _, userID := range ms.Claims {
		if !isBotUserId(userID) {
			count++
		}
	}
	return count
}

// FactionOf returns the faction a user has claimed, or "".
func (ms *MatchState) FactionOf(userID string) domain.Faction {
	for f, uid := range ms.Claims {
		if uid == userID {
			return f
		}
	}
	return ""
}

func (ms *MatchState) gamePhase() domain.GamePhase {
	if ms.Game != nil {
		return domain.GamePhasePlaying
	}
	return domain.GamePhaseLobby
}

// allPendingAnswered reports whether every outstanding request has a
// collected response.
func (ms *MatchState) allPendingAnswered() bool {
	for _, req := range ms.Pending {
		if _, ok := ms.Responses[req.Faction]; !ok {
			return false
		}
	}
	return true
}

func (ms *MatchState) takeResponses() []phase.Response {
	if len(ms.Responses) == 0 {
		return nil
	}
	out := make([]phase.Response, 0, len(ms.Responses))
	for _, req := range ms.Pending {
		if resp, ok := ms.Responses[req.Faction]; ok {
			out = append(out, resp)
		}
	}
	ms.Responses = make(map[domain.Faction]phase.Response)
	return out
}

// isBotUserId reports whether the given user id represents an agent seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// firstHumanPresent returns the user ID of any connected human, preferring
// the current owner, or "".
func firstHumanPresent(state *MatchState) string {
	if _, ok := state.Presences[state.OwnerID]; ok && state.OwnerID != "" {
		return state.OwnerID
	}
	for uid := range state.Presences {
		if !isBotUserId(uid) {
			return uid
		}
	}
	return ""
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: initializing match handler")

	cfg := config.GetGameConfig()

	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}

	state := &MatchState{
		Tick:             time.Now().Unix(),
		Claims:           make(map[domain.Faction]string),
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		Responses:        make(map[domain.Faction]phase.Response),
		BotActAt:         make(map[domain.Faction]int64),
		Bots:             make(map[string]*bot.Agent),
		Economy:          NewNakamaEconomyAdapter(nk),
		BotMinDelay:      cfg.BotMinDelayTicks,
		BotMaxDelay:      cfg.BotMaxDelayTicks,
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["arrakis_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["arrakis_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if state.BotMinDelay <= 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}
	if state.BotAutoFillDelay <= 0 {
		state.BotAutoFillDelay = 5
	}

	label, err := marshalLabel(domain.ComputeLabel(domain.GamePhaseLobby, 0))
	if err != nil {
		logger.Error("MatchInit: failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Mid-game the only permitted joins are reconnects of seated players.
	if matchState.Game != nil {
		if matchState.FactionOf(presence.GetUserId()) == "" {
			return state, false, "game in progress"
		}
		return state, true, ""
	}

	if matchState.ClaimedCount() >= len(domain.AllFactions()) && matchState.HumanCount() == matchState.ClaimedCount() {
		return state, false, "match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if matchState.OwnerID == "" && !isBotUserId(p.GetUserId()) {
			matchState.OwnerID = p.GetUserId()
			logger.Debug("MatchJoin: owner set to %s", matchState.OwnerID)
		}

		mh.dispatchAppEvent(matchState, dispatcher, logger, app.Event{
			Kind: app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{
				UserID:      p.GetUserId(),
				DisplayName: p.GetUsername(),
				Owner:       p.GetUserId() == matchState.OwnerID,
			},
		})
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(ctx, matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		faction := matchState.FactionOf(p.GetUserId())
		if faction != "" {
			if matchState.Game == nil {
				// Lobby: free the seat.
				delete(matchState.Claims, faction)
			} else if matchState.BotsEnabled {
				// Mid-game: seat an agent so the game can continue.
				mh.seatAgent(matchState, dispatcher, faction, logger)
			}
		}

		mh.dispatchAppEvent(matchState, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerLeft,
			Payload: app.PlayerLeftPayload{UserID: p.GetUserId(), Faction: faction},
		})
	}

	if owner := firstHumanPresent(matchState); owner != matchState.OwnerID {
		matchState.OwnerID = owner
		if owner != "" {
			logger.Debug("MatchLeave: owner set to %s", owner)
		}
	}

	if firstHumanPresent(matchState) == "" {
		logger.Info("MatchLeave: terminating match with no humans")
		mh.settleGame(ctx, matchState, dispatcher, logger)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpClaimFaction:
			mh.handleClaimFaction(matchState, dispatcher, logger, msg)
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpSubmitDecision:
			mh.handleSubmitDecision(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	mh.drivePhase(ctx, matchState, dispatcher, logger)

	return matchState
}

// seatAgent claims the faction for an agent from the identity pool.
func (mh *matchHandler) seatAgent(state *MatchState, dispatcher runtime.MatchDispatcher, faction domain.Faction, logger runtime.Logger) {
	identity := bot.GetBotIdentity(len(state.Bots))
	if identity.UserID == "" {
		// The pool entry was never provisioned. Synthesize a per-seat agent
		// and register it, otherwise IsBot would not recognize the seat and
		// its pending requests would never be answered.
		identity.UserID = "agent-" + string(faction)
		if identity.DisplayName == "" {
			identity.DisplayName = "Agent " + string(faction)
		}
		if identity.Difficulty == "" {
			identity.Difficulty = config.GetGameConfig().DefaultBotDifficulty
		}
		bot.RegisterIdentity(identity)
	}
	botID := identity.UserID

	brain, err := bot.NewBrain(bot.LevelFor(botID))
	if err != nil {
		logger.Error("seatAgent: failed to create strategy for %s: %v", botID, err)
		return
	}

	state.Claims[faction] = botID
	state.Bots[botID] = &bot.Agent{
		ID:       botID,
		Name:     identity.DisplayName,
		Faction:  faction,
		Strategy: brain,
	}
	mh.dispatchAppEvent(state, dispatcher, logger, app.Event{
		Kind: app.EventFactionClaimed,
		Payload: app.FactionClaimedPayload{
			UserID:      botID,
			Faction:     faction,
			DisplayName: identity.DisplayName,
			IsBot:       true,
		},
	})
	logger.Info("seatAgent: agent %s (%s) seated at %s", identity.DisplayName, botID, faction)
}

func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Auto-fill a solo human lobby with agents after the grace delay.
	if state.Game == nil {
		if state.HumanCount() == 1 {
			if state.LonePlayerSince == 0 {
				state.LonePlayerSince = state.Tick
				logger.Debug("processBots: single player detected, starting auto-fill timer")
			}
			if state.Tick-state.LonePlayerSince >= int64(state.BotAutoFillDelay) {
				added := false
				for _, f := range domain.AllFactions() {
					if _, claimed := state.Claims[f]; claimed {
						continue
					}
					mh.seatAgent(state, dispatcher, f, logger)
					added = true
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastSnapshot(context.Background(), state, dispatcher, logger)
				}
				state.LonePlayerSince = 0
			}
		} else {
			state.LonePlayerSince = 0
		}
		return
	}

	// Answer pending requests addressed to agent factions after a delay.
	for _, req := range state.Pending {
		if _, answered := state.Responses[req.Faction]; answered {
			continue
		}
		userID, claimed := state.Claims[req.Faction]
		if !claimed || !isBotUserId(userID) {
			continue
		}
		agent, exists := state.Bots[userID]
		if !exists {
			continue
		}

		actAt, scheduled := state.BotActAt[req.Faction]
		if !scheduled {
			delay := state.rng.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
			state.BotActAt[req.Faction] = state.Tick + int64(delay)
			logger.Debug("processBots: agent %s will answer %s at tick %d", userID, req.Type, state.Tick+int64(delay))
			continue
		}
		if state.Tick < actAt {
			continue
		}

		delete(state.BotActAt, req.Faction)
		state.Responses[req.Faction] = agent.Answer(state.Game, req)
	}
}

// drivePhase advances the active phase engine when it is not waiting on
// outstanding decisions, and paces turn boundaries.
func (mh *matchHandler) drivePhase(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Phase == nil {
		return
	}

	// Between turns: wait for the pacing tick, then open the next turn.
	if state.PhaseCtx == nil {
		if state.Tick < state.NextTurnAt {
			return
		}
		res := state.Phase.Initialize(state.Game)
		state.PhaseCtx = res.Context
		mh.dispatchAppEvent(state, dispatcher, logger, app.Event{
			Kind:    app.EventPhaseStarted,
			Payload: app.PhaseStartedPayload{Phase: state.Phase.Name(), Turn: state.Game.Turn},
		})
		return
	}

	if len(state.Pending) > 0 && !state.allPendingAnswered() {
		return
	}

	res, err := state.Phase.ProcessStep(state.Game, state.PhaseCtx, state.takeResponses())
	if err != nil {
		logger.Error("drivePhase: %s step failed: %v", state.Phase.Name(), err)
		// Drop the collected answers and re-ask so a malformed response
		// cannot wedge the match.
		mh.sendPendingRequests(state, dispatcher, logger)
		return
	}

	state.Game = res.State
	state.PhaseCtx = res.Context

	for _, ev := range res.Events {
		mh.broadcastJSON(dispatcher, logger, OpPhaseEvent, phaseEventToWire(state.Phase.Name(), ev), nil)
		for _, agent := range state.Bots {
			agent.OnGameEvent(ev)
		}
	}

	state.Pending = res.PendingRequests
	mh.sendPendingRequests(state, dispatcher, logger)

	if res.PhaseComplete {
		state.Game = state.Phase.Cleanup(state.Game, state.PhaseCtx)
		state.PhaseCtx = nil
		state.Pending = nil

		mh.dispatchAppEvent(state, dispatcher, logger, app.Event{
			Kind: app.EventPhaseCompleted,
			Payload: app.PhaseCompletedPayload{
				Phase:     state.Phase.Name(),
				NextPhase: res.NextPhase,
				Turn:      state.Game.Turn,
			},
		})

		// Only the spice blow engine runs server-side for now, so the turn
		// advances as soon as it completes.
		state.Game.Turn++
		cfg := config.GetGameConfig()
		state.NextTurnAt = state.Tick + int64(cfg.TurnDurationSeconds)

		mh.broadcastSnapshot(ctx, state, dispatcher, logger)
	}
}

// sendPendingRequests delivers each outstanding request to its addressed
// faction only. Requests for agent factions are answered in processBots.
func (mh *matchHandler) sendPendingRequests(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for _, req := range state.Pending {
		userID, claimed := state.Claims[req.Faction]
		if !claimed || isBotUserId(userID) {
			continue
		}
		presence, online := state.Presences[userID]
		if !online {
			continue
		}
		mh.broadcastJSON(dispatcher, logger, OpDecisionRequest, requestToWire(req), []runtime.Presence{presence})
	}
}

func (mh *matchHandler) handleClaimFaction(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "game already started")
		return
	}

	var req ClaimFactionRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleClaimFaction: invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}

	faction := domain.Faction(req.Faction)
	valid := false
	for _, f := range domain.AllFactions() {
		if f == faction {
			valid = true
			break
		}
	}
	if !valid {
		mh.sendError(state, dispatcher, logger, senderID, 400, "unknown faction")
		return
	}

	if occupant, taken := state.Claims[faction]; taken && occupant != senderID {
		if !isBotUserId(occupant) {
			mh.sendError(state, dispatcher, logger, senderID, 409, "faction already claimed")
			return
		}
		// Humans displace agents in the lobby.
		delete(state.Bots, occupant)
	}

	// A player switching seats frees their previous claim.
	if prev := state.FactionOf(senderID); prev != "" && prev != faction {
		delete(state.Claims, prev)
	}

	state.Claims[faction] = senderID

	displayName := senderID
	if p, ok := state.Presences[senderID]; ok {
		displayName = p.GetUsername()
	}

	mh.dispatchAppEvent(state, dispatcher, logger, app.Event{
		Kind: app.EventFactionClaimed,
		Payload: app.FactionClaimedPayload{
			UserID:      senderID,
			Faction:     faction,
			DisplayName: displayName,
		},
	})
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	logger.Info("StartGame: request from %s (owner=%s, claimed=%d)", senderID, state.OwnerID, state.ClaimedCount())

	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "game already started")
		return
	}
	if senderID != state.OwnerID {
		logger.Warn("StartGame: user %s tried to start but is not owner", senderID)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the owner can start the game")
		return
	}

	var req StartGameRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			logger.Warn("StartGame: invalid payload from %s: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
			return
		}
	}

	cfg := config.GetGameConfig()
	advanced := cfg.AdvancedRules
	if req.AdvancedRules != nil {
		advanced = *req.AdvancedRules
	}

	factions := make([]domain.Faction, 0, len(state.Claims))
	for f := range state.Claims {
		factions = append(factions, f)
	}

	game, events, err := state.App.StartGame(factions, advanced)
	if err != nil {
		logger.Warn("StartGame: cannot start: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Game = game
	state.Phase = spiceblow.NewHandler(state.rng, logger, spiceblow.Options{
		GreatWormVariant:   cfg.GreatWormVariant,
		GreatWormThreshold: cfg.GreatWormThreshold,
	})
	state.PhaseCtx = nil
	state.NextTurnAt = state.Tick // first turn opens on the next tick

	for _, ev := range events {
		mh.dispatchAppEvent(state, dispatcher, logger, ev)
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastSnapshot(ctx, state, dispatcher, logger)

	logger.Info("StartGame: game started with %d factions", len(game.Factions))
}

func (mh *matchHandler) handleSubmitDecision(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	faction := state.FactionOf(senderID)
	if faction == "" {
		mh.sendError(state, dispatcher, logger, senderID, 403, "no faction claimed")
		return
	}

	addressed := false
	for _, req := range state.Pending {
		if req.Faction == faction {
			addressed = true
			break
		}
	}
	if !addressed {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no pending decision for your faction")
		return
	}

	var req SubmitDecisionRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleSubmitDecision: invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}

	state.Responses[faction] = responseFromWire(faction, req)
}

// broadcastSnapshot sends the full seat/board view to every presence.
func (mh *matchHandler) broadcastSnapshot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	seats := make([]SeatInfo, 0, len(state.Claims))
	for _, f := range domain.AllFactions() {
		userID, claimed := state.Claims[f]
		if !claimed {
			continue
		}

		displayName := userID
		if p, ok := state.Presences[userID]; ok {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userID); name != "" {
			displayName = name
		}

		var balance int64
		if state.Economy != nil {
			if b, err := state.Economy.GetBalance(ctx, userID); err == nil {
				balance = b
			}
		}

		seat := SeatInfo{
			Faction:     string(f),
			UserID:      userID,
			DisplayName: displayName,
			IsBot:       isBotUserId(userID),
			Balance:     balance,
		}
		if identity, ok := bot.GetBotConfig(userID); ok {
			seat.AvatarIndex = identity.AvatarIndex
		}
		seats = append(seats, seat)
	}

	snapshot := MatchSnapshot{
		Phase:   string(state.gamePhase()),
		OwnerID: state.OwnerID,
		Seats:   seats,
		Tick:    state.Tick,
	}
	if state.Game != nil {
		snapshot.Turn = state.Game.Turn
		snapshot.StormSector = state.Game.StormSector
		snapshot.Spice = state.Game.SpiceOnBoard
	}

	mh.broadcastJSON(dispatcher, logger, OpMatchSnapshot, snapshot, nil)
}

// dispatchAppEvent converts an app event into its wire form and delivers
// it, honoring targeted recipients. Events with recipients that are all
// offline are dropped.
func (mh *matchHandler) dispatchAppEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, payload, ok := appEventToWire(ev)
	if !ok {
		logger.Warn("dispatchAppEvent: no wire mapping for event %q", ev.Kind)
		return
	}

	var targets []runtime.Presence
	for _, uid := range ev.Recipients {
		if p, online := state.Presences[uid]; online {
			targets = append(targets, p)
		}
	}
	if len(ev.Recipients) > 0 && len(targets) == 0 {
		return
	}

	mh.broadcastJSON(dispatcher, logger, opCode, payload, targets)
}

// settleGame runs once when a started game ends: every seated human's spice
// holdings convert to solari in one wallet settlement, and the faction that
// harvested the most is announced as the winner.
func (mh *matchHandler) settleGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Settled {
		return
	}
	state.Settled = true

	var updates []ports.SolariUpdate
	payouts := make(map[domain.Faction]int64)
	var winner domain.Faction
	best := -1
	for _, f := range domain.AllFactions() {
		userID, claimed := state.Claims[f]
		if !claimed {
			continue
		}
		fs, ok := state.Game.Players[f]
		if !ok {
			continue
		}
		if fs.Spice > best {
			best = fs.Spice
			winner = f
		}

		amount := int64(fs.Spice) * solariPerSpice
		payouts[f] = amount
		if amount == 0 || isBotUserId(userID) {
			continue
		}
		updates = append(updates, ports.SolariUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"reason":  "spice_settlement",
				"faction": string(f),
				"turn":    state.Game.Turn,
			},
		})
	}

	if state.Economy != nil && len(updates) > 0 {
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("settleGame: failed to settle spice holdings: %v", err)
		}
	}

	mh.dispatchAppEvent(state, dispatcher, logger, app.Event{
		Kind:    app.EventGameEnded,
		Payload: app.GameEndedPayload{Winner: winner, Payouts: payouts},
	})
	logger.Info("settleGame: game settled, winner %s", winner)
}

// broadcastJSON marshals the payload and dispatches it; nil presences means
// broadcast to everyone.
func (mh *matchHandler) broadcastJSON(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload any, presences []runtime.Presence) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcastJSON: failed to marshal opcode %d payload: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, presences, nil, true); err != nil {
		logger.Error("broadcastJSON: failed to dispatch opcode %d: %v", opCode, err)
	}
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("sendError: cannot send to %s: presence not found", userID)
		return
	}
	mh.broadcastJSON(dispatcher, logger, OpGameError, GameErrorEvent{Code: code, Message: message}, []runtime.Presence{presence})
}

// marshalLabel renders the advertised match label as indexed JSON.
func marshalLabel(lbl domain.LabelPayload) (string, error) {
	s, err := structpb.NewStruct(map[string]any{
		"open":  lbl.Open,
		"game":  lbl.Game,
		"phase": lbl.Phase,
	})
	if err != nil {
		return "", err
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := marshalLabel(domain.ComputeLabel(state.gamePhase(), state.ClaimedCount()))
	if err != nil {
		logger.Error("updateLabel: failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("updateLabel: failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	if matchState, ok := state.(*MatchState); ok {
		mh.settleGame(ctx, matchState, dispatcher, logger)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
