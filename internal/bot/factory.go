package bot

import "fmt"

// NewBrain builds the strategy for a bot level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelPassive:
		return &PassiveBot{}, nil
	case BotLevelCautious:
		return &CautiousBot{}, nil
	case BotLevelOpportunist:
		return NewOpportunistBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
