package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sutda-server/pkg/playable"
	"sutda-server/pkg/room/gamefactory"
	"sutda-server/pkg/table"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateGameEnded
)

// tickInterval is how often the run loop polls a tickable game
const tickInterval = time.Millisecond * 100

// Dealer is responsible for controlling the game
type Dealer struct {
	pitBoss *PitBoss
	table   *table.Table
	clients map[*Client]bool
	lock    sync.RWMutex
	game    playable.Playable

	pendingGame *pendingGame
	logMessages []*playable.LogMessage
	nextTick    time.Time

	execInRunLoop            chan func()
	execInRunLoopWithClients chan func([]*Client)
	stateChanged             chan state
	close                    chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, table *table.Table) *Dealer {
	d := &Dealer{
		pitBoss:                  pitBoss,
		table:                    table,
		clients:                  make(map[*Client]bool),
		execInRunLoop:            make(chan func(), 256),
		execInRunLoopWithClients: make(chan func([]*Client), 256),
		stateChanged:             make(chan state, 256),
		close:                    make(chan bool),
		game:                     nil,
	}

	return d
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := logrus.WithFields(logrus.Fields{
		"uuid": d.table.UUID,
		"name": d.table.Name,
	})

	log.Debug("creating dealer run loop")

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendPlayerData()
			case stateGameEvent:
				d.sendGameData()
			case stateGameEnded:
				d.sendGameEnded()
				d.sendPlayerData()
			}
		case <-ticker.C:
			d.tickGame()
		case messages := <-d.gameLogChan():
			d.addLogMessages(messages)
			for _, client := range d.Clients() {
				client.Send(&playable.Response{
					Key:  "logs",
					Data: messages,
				})
			}
		case <-d.pendingGameTimer():
			d.startPendingGame()
		case fn := <-d.execInRunLoop:
			fn()
		case fn := <-d.execInRunLoopWithClients:
			fn(d.Clients())
		case <-d.close:
			log.Debug("terminating dealer run loop")
			return
		}
	}
}

// gameLogChan returns the active game's log channel.
// A nil channel blocks forever in the run loop select, which is the
// desired behavior when there's no game.
func (d *Dealer) gameLogChan() <-chan []*playable.LogMessage {
	if d.game == nil {
		return nil
	}

	return d.game.LogChan()
}

func (d *Dealer) pendingGameTimer() <-chan time.Time {
	if d.pendingGame == nil {
		return nil
	}

	return d.pendingGame.timer.C
}

// tickGame advances a tickable game at its requested interval
// NOTE: must only be called from the run loop
func (d *Dealer) tickGame() {
	game, ok := d.game.(playable.Tickable)
	if !ok {
		return
	}

	if time.Now().Before(d.nextTick) {
		return
	}

	d.nextTick = time.Now().Add(game.Interval())

	update, err := game.Tick()
	if err != nil {
		logrus.WithError(err).Error("tick failed")
		return
	}

	if update {
		d.stateChanged <- stateGameEvent
		d.endGameIfNeeded(nil, "")
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		if d.game == nil {
			return
		}

		gs, err := d.game.GetPlayerState(client.player.ID)
		if err != nil {
			logrus.WithError(err).Error("could not get player state")
			return
		}

		client.Send(gs)

		if len(d.logMessages) > 0 {
			client.Send(&playable.Response{
				Key:  "logs",
				Data: d.logMessages,
			})
		}
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameEnded() {
	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key: "gameEnded",
		})
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	if d.game == nil {
		// should not happen
		logrus.Error("XXX game state changed, but there's no active game")
		return
	}

	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.player.ID)
		if err != nil {
			logrus.WithError(err).Error("could not get player state")
			continue
		}

		client.Send(data)
	}
}

func (d *Dealer) sendPlayerData() {
	players, err := d.table.GetPlayers(context.Background())
	if err != nil {
		logrus.WithField("uuid", d.table.UUID).WithError(err).Error("could not get players")
		return
	}

	connectedClients := make(map[int64]*table.Player)
	for _, client := range d.Clients() {
		connectedClients[client.player.ID] = client.player
	}

	csPlayers := make(map[int64]*clientStatePlayers)
	for _, player := range players {
		_, isConnected := connectedClients[player.PlayerID]
		delete(connectedClients, player.PlayerID)
		csPlayers[player.PlayerID] = &clientStatePlayers{
			PlayerTable: player,
			IsConnected: isConnected || player.Player.IsBot,
			IsSeated:    true,
		}
	}

	for _, player := range connectedClients {
		csPlayers[player.ID] = &clientStatePlayers{
			PlayerTable: &table.PlayerTable{
				Player:    player,
				PlayerID:  player.ID,
				TableUUID: d.table.UUID,
			},
			IsConnected: true,
			IsSeated:    false,
		}
	}

	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key:  "clientState",
			Data: csPlayers,
		})
	}
}

// canAdminTable will send an error message to the client if they are not a table admin or site admin
// If they are an appropriate admin, true is returned, otherwise false is returned
func canAdminTable(ctx string, c *Client) bool {
	if c.player.IsSiteAdmin {
		return true
	}

	playerTable, err := c.player.GetPlayerTable(context.Background(), c.table)
	if err != nil {
		c.Send(newErrorResponse(ctx, err))
		return false
	}

	if !playerTable.IsTableAdmin {
		c.Send(newErrorResponse(ctx, errors.New("you do not have the appropriate permission")))
		return false
	}

	return true
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	switch msg.Action {
	case "createGame":
		if !canAdminTable(msg.Context, c) {
			return
		}

		d.execInRunLoop <- func() {
			if err := d.schedulePendingGame(c, msg); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(playable.OK(msg.Context))
		}
	case "terminateGame":
		if !canAdminTable(msg.Context, c) {
			return
		}

		d.execInRunLoop <- func() {
			d.game = nil
			d.pendingGame = nil
			d.logMessages = nil
			d.stateChanged <- stateGameEnded
		}

		c.Send(playable.OK(msg.Context))
	case "tableAdmin":
		d.execInRunLoop <- func() {
			if !canAdminTable(msg.Context, c) {
				return
			}

			isTableAdmin, ok := msg.AdditionalData.GetBool("isTableAdmin")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("isTableAdmin is not boolean")))
				return
			}

			playerID, ok := msg.AdditionalData.GetInt("playerId")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("could not obtain playerId")))
				return
			}

			player, err := table.GetPlayerByID(context.Background(), int64(playerID))
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			playerTable, err := player.GetPlayerTable(context.Background(), c.table)
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			if err := playerTable.SetIsTableAdmin(context.Background(), isTableAdmin); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(playable.OK(msg.Context))
			d.stateChanged <- stateClientEvent
		}
	case "playerStatus":
		d.execInRunLoop <- func() {
			var pt *table.PlayerTable
			var err error

			// set status for other player, requires table admin
			playerID, ok := msg.AdditionalData.GetInt("playerId")
			if ok {
				if !canAdminTable(msg.Context, c) {
					return
				}

				var player *table.Player
				player, err = table.GetPlayerByID(context.Background(), int64(playerID))
				if err != nil {
					c.Send(newErrorResponse(msg.Context, err))
					return
				}

				pt, err = player.GetPlayerTable(context.Background(), c.table)
			} else {
				// set status for self
				pt, err = c.player.GetPlayerTable(context.Background(), c.table)
			}

			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			isActive, ok := msg.AdditionalData.GetBool("active")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("active is not boolean")))
				return
			}

			if err := pt.SetActive(context.Background(), isActive); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(playable.OK(msg.Context))
			d.stateChanged <- stateClientEvent
		}
	default:
		d.execInRunLoop <- func() {
			if d.game == nil {
				logrus.WithField("msg", msg).Warn("unknown message")
				return
			}

			action, updateState, err := d.game.Action(c.player.ID, msg)
			if err != nil {
				logrus.WithError(err).WithField("client", c.String()).Error("could not perform action")
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			if action != nil {
				action.Context = msg.Context
				c.Send(action)
			}

			if updateState {
				d.stateChanged <- stateGameEvent
			}

			d.endGameIfNeeded(c, msg.Context)
		}
	}
}

// schedulePendingGame validates the request and starts the countdown to
// a new game
// NOTE: must only be called from the run loop
func (d *Dealer) schedulePendingGame(c *Client, msg *playable.PayloadIn) error {
	if d.game != nil {
		return errors.New("a game is already in progress")
	}

	if d.pendingGame != nil {
		return errors.New("a game is already scheduled to start")
	}

	pg, err := newPendingGame(c, msg)
	if err != nil {
		return err
	}

	d.pendingGame = pg
	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key:  "scheduledGame",
			Data: pg,
		})
	}

	return nil
}

// startPendingGame creates the game once the countdown elapses
// NOTE: must only be called from the run loop
func (d *Dealer) startPendingGame() {
	pg := d.pendingGame
	d.pendingGame = nil

	factory, err := gamefactory.Get(pg.message.Subject)
	if err != nil {
		logrus.WithError(err).Error("could not get game factory")
		return
	}

	players, err := d.table.GetActivePlayersShifted(context.Background())
	if err != nil {
		logrus.WithError(err).Error("could not get players")
		return
	}

	playerIDs := make([]int64, 0, len(players))
	botIDs := make([]int64, 0)
	for _, player := range players {
		if !player.Active {
			continue
		}

		playerIDs = append(playerIDs, player.PlayerID)
		if player.Player.IsBot {
			botIDs = append(botIDs, player.PlayerID)
		}
	}

	additionalData := pg.message.AdditionalData
	if additionalData == nil {
		additionalData = playable.AdditionalData{}
	}
	additionalData["botIds"] = botIDs

	logger := logrus.WithFields(logrus.Fields{
		"uuid": d.table.UUID,
		"game": pg.message.Subject,
	})

	game, err := factory.CreateGame(logger, playerIDs, additionalData)
	if err != nil {
		logrus.WithError(err).Error("could not create game")
		if pg.client != nil {
			pg.client.Send(newErrorResponse(pg.message.Context, err))
		}
		return
	}

	d.game = game
	d.logMessages = nil
	d.nextTick = time.Time{}
	d.stateChanged <- stateGameEvent
}

// endGameIfNeeded persists the game record once the game reports it is over
// NOTE: must only be called from the run loop
func (d *Dealer) endGameIfNeeded(c *Client, msgContext string) {
	game := d.game
	if game == nil {
		return
	}

	details, isOver := game.GetEndOfGameDetails()
	if !isOver {
		return
	}

	record, err := d.table.CreateGame(context.Background(), game.Name())
	if err != nil {
		logrus.WithError(err).Error("could not create game record")
		if c != nil {
			c.Send(newErrorResponse(msgContext, err))
		}
		return
	}

	if err := record.EndGame(context.Background(), details.Log, details.BalanceAdjustments); err != nil {
		logrus.WithError(err).Error("could not save game record")
		if c != nil {
			c.Send(newErrorResponse(msgContext, err))
		}
		return
	}

	d.game = nil
	d.stateChanged <- stateGameEnded
}
