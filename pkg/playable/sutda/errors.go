package sutda

import "errors"

// ErrGameIsOver is returned when an action arrives after the game ended
var ErrGameIsOver = errors.New("the game is over")

// ErrInvalidPlayerCount is returned when a game is created with a bad player count
var ErrInvalidPlayerCount = errors.New("sutda requires 2 to 10 players")

// ErrNotPlayersTurn is returned when a player acts out of turn
var ErrNotPlayersTurn = errors.New("it is not your turn")

// ErrNotBettingPhase is returned when a betting action arrives outside the playing phase
var ErrNotBettingPhase = errors.New("the game is not in a betting phase")

// ErrNotReadyPhase is returned when a ready arrives outside the waiting or result phase
var ErrNotReadyPhase = errors.New("you cannot ready up right now")

// ErrPlayerNotFound is returned when a player is not in the game
var ErrPlayerNotFound = errors.New("player not found")

// ErrPlayerFolded is returned when a folded player attempts an action
var ErrPlayerFolded = errors.New("you have already folded")

// ErrCheckWithOutstandingBet is returned when a player checks into a bet
var ErrCheckWithOutstandingBet = errors.New("there is an outstanding bet; call, raise, or die")

// ErrPpingNotFirst is returned when a non-first player attempts a pping
var ErrPpingNotFirst = errors.New("only the first player may pping")

// ErrPpingWithOutstandingBet is returned when a pping arrives after a bet
var ErrPpingWithOutstandingBet = errors.New("there is an outstanding bet; you cannot pping")

// ErrDdadangWithoutBet is returned when there is no bet to ddadang
var ErrDdadangWithoutBet = errors.New("there is no outstanding bet; check or pping instead")
