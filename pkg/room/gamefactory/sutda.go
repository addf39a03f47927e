package gamefactory

import (
	"time"

	"github.com/sirupsen/logrus"

	"sutda-server/pkg/playable"
	"sutda-server/pkg/playable/sutda"
)

type sutdaFactory struct{}

func (s sutdaFactory) Details(additionalData playable.AdditionalData) (string, int, error) {
	opts := getSutdaOptions(additionalData)
	return "Sutda", opts.BaseBet, nil
}

func (s sutdaFactory) CreateGame(logger logrus.FieldLogger, playerIDs []int64, additionalData playable.AdditionalData) (playable.Playable, error) {
	opts := getSutdaOptions(additionalData)
	return sutda.NewGame(logger, playerIDs, opts)
}

func getSutdaOptions(additionalData playable.AdditionalData) sutda.Options {
	opts := sutda.DefaultOptions()

	if baseBet, ok := additionalData.GetInt("baseBet"); ok && baseBet > 0 {
		opts.BaseBet = baseBet
	}

	if startingBalance, ok := additionalData.GetInt("startingBalance"); ok && startingBalance > 0 {
		opts.StartingBalance = startingBalance
	}

	if botIDs, ok := additionalData.GetInt64Slice("botIds"); ok {
		opts.BotIDs = botIDs
	}

	if botDelay, ok := additionalData.GetInt("botDelayMs"); ok && botDelay > 0 {
		opts.BotDelay = time.Duration(botDelay) * time.Millisecond
	}

	return opts
}
