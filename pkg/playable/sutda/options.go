package sutda

import "time"

// Options configures how sutda is played
type Options struct {
	// BaseBet is the ante and the minimum stake of every betting action
	BaseBet int
	// StartingBalance is each player's table stake
	StartingBalance int
	// BotIDs are the players the game plays automatically
	BotIDs []int64
	// BotDelay is how long a bot waits before acting or readying up
	BotDelay time.Duration
}

// DefaultOptions returns the default options for sutda
func DefaultOptions() Options {
	return Options{
		BaseBet:         1000,
		StartingBalance: 100000,
		BotDelay:        time.Second,
	}
}
