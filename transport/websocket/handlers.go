package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
	"github.com/rocketscienceinc/neon-tictactoe/transport/response"
)

var errNotConnected = errors.New("connect first")

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload")
		return err
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		that.sendError(conn, msg.Action, response.Message(err))
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	that.register(conn, player.ID)

	payloadResp := ResponsePayload{Player: player}

	if player.GameID != "" {
		game, gameErr := that.uGame.GetGame(ctx, player.ID)
		if gameErr != nil {
			log.Warn("player is seated in a missing game", "playerID", player.ID, "error", gameErr)
		} else {
			payloadResp.Game = response.NewGame(game)
		}
	}

	if err = conn.send(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player connected", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := that.authorized(conn, msg)
	if err != nil {
		return err
	}

	if payloadReq.Game == nil {
		that.sendError(conn, msg.Action, "game is required")
		return nil
	}

	mode, err := entity.ParseMode(payloadReq.Game.Mode)
	if err != nil {
		that.sendError(conn, msg.Action, response.Message(err))
		return nil
	}

	var difficulty entity.Difficulty
	if mode == entity.ModePvC {
		if difficulty, err = entity.ParseDifficulty(payloadReq.Game.Difficulty); err != nil {
			that.sendError(conn, msg.Action, response.Message(err))
			return nil
		}
	}

	game, err := that.uGame.CreateGame(ctx, conn.playerID, mode, difficulty)
	if err != nil {
		that.sendError(conn, msg.Action, response.Message(err))
		return fmt.Errorf("failed to create game: %w", err)
	}

	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := that.authorized(conn, msg)
	if err != nil {
		return err
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		that.sendError(conn, msg.Action, "game id is required")
		return nil
	}

	game, err := that.uGame.JoinGame(ctx, payloadReq.Game.ID, conn.playerID)
	if err != nil {
		that.sendError(conn, msg.Action, response.Message(err))
		return fmt.Errorf("failed to join game: %w", err)
	}

	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := that.authorized(conn, msg)
	if err != nil {
		return err
	}

	if payloadReq.Cell == nil {
		that.sendError(conn, msg.Action, "cell is required")
		return nil
	}

	game, err := that.uGame.MakeTurn(ctx, conn.playerID, *payloadReq.Cell)
	if err != nil {
		that.sendError(conn, msg.Action, response.Message(err))
		return fmt.Errorf("failed to make turn: %w", err)
	}

	that.broadcast(msg.Action, game)

	if game.IsFinished() {
		that.logger.Info("game finished", "gameID", game.ID, "state", game.State)
	}

	return nil
}

func (that *Server) handleNewRound(ctx context.Context, conn *connection, msg *Message) error {
	if _, err := that.authorized(conn, msg); err != nil {
		return err
	}

	game, err := that.uGame.NewRound(ctx, conn.playerID)
	if err != nil {
		that.sendError(conn, msg.Action, response.Message(err))
		return fmt.Errorf("failed to start new round: %w", err)
	}

	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, conn *connection, msg *Message) error {
	if _, err := that.authorized(conn, msg); err != nil {
		return err
	}

	game, err := that.uGame.GetGame(ctx, conn.playerID)
	if err != nil {
		that.sendError(conn, msg.Action, response.Message(err))
		return fmt.Errorf("failed to get game: %w", err)
	}

	if err = that.uGame.LeaveGame(ctx, conn.playerID); err != nil {
		that.sendError(conn, msg.Action, response.Message(err))
		return fmt.Errorf("failed to leave game: %w", err)
	}

	view := response.NewGame(game)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		peer, ok := that.connectionOf(player.ID)
		if !ok {
			continue
		}

		status := gameStatusOpponentOut
		if player.ID == conn.playerID {
			status = gameStatusLeave
		}

		if err = peer.send(msg.Action, ResponsePayload{Game: view, Status: status}); err != nil {
			that.logger.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}

	that.logger.Info("player left game", "playerID", conn.playerID, "gameID", game.ID)

	return nil
}

// broadcast sends the game to every human seated in it.
func (that *Server) broadcast(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcast", "gameID", game.ID)
	view := response.NewGame(game)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connectionOf(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := ResponsePayload{
			Player: player,
			Game:   view,
		}

		if err := conn.send(action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

// authorized decodes the payload of a message sent on a connected socket.
func (that *Server) authorized(conn *connection, msg *Message) (*Payload, error) {
	if conn.playerID == "" {
		that.sendError(conn, msg.Action, errNotConnected.Error())
		return nil, errNotConnected
	}

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload")
		return nil, err
	}

	return payloadReq, nil
}

func (that *Server) sendError(conn *connection, action, errorMsg string) {
	if err := conn.send(action, ResponsePayload{Error: errorMsg}); err != nil {
		that.logger.Error("failed to send error response", "action", action, "error", err)
	}
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}
