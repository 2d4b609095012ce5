package app

// MinFactionsToStartGame defines the minimum number of claimed factions required to start a game.
// Keep this centralized so tests or local runs can adjust the rule without touching multiple call sites.
const MinFactionsToStartGame = 2
