package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcReplayToken is the Nakama RPC id clients call to obtain a signed replay token.
	RpcReplayToken = "replay_token"

	// MatchNameArrakis is the authoritative match handler name registered with Nakama.
	MatchNameArrakis = "arrakis_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpClaimFaction   int64 = 1
	OpStartGame      int64 = 2
	OpSubmitDecision int64 = 3

	// Server -> Client events
	OpMatchSnapshot   int64 = 101
	OpPlayerJoined    int64 = 102
	OpPlayerLeft      int64 = 103
	OpFactionClaimed  int64 = 104
	OpGameStarted     int64 = 105
	OpPhaseEvent      int64 = 106
	OpDecisionRequest int64 = 107 // sent privately to the addressed faction
	OpPhaseComplete   int64 = 108
	OpGameError       int64 = 109
	OpGameEnded       int64 = 110
)
