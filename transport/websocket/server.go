package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
)

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	CreateGame(ctx context.Context, playerID string, mode entity.Mode, difficulty entity.Difficulty) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) error

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	NewRound(ctx context.Context, playerID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	connections      map[string]*connection
	connectionsMutex sync.RWMutex
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers:    make(map[string]handlerFunc),
		connections: make(map[string]*connection),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameJoin] = server.handleJoinGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameRound] = server.handleNewRound
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

// Handler - returns the /ws endpoint; ctx bounds every message handled on it.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}

		that.closeConnections()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	wsConn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{conn: wsConn}
	defer that.handleDisconnect(conn)

	log.Debug("WebSocket connection established", "remote", r.RemoteAddr)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client until the connection drops.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := conn.conn.ReadJSON(&message); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return err
			}

			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Error("failed to unmarshal message", "error", err)
				that.sendError(conn, "", "invalid message")
				continue
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(conn, message.Action, "unknown action")
			continue
		}

		if err := handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) register(conn *connection, playerID string) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if conn.playerID != "" && conn.playerID != playerID {
		delete(that.connections, conn.playerID)
	}

	conn.playerID = playerID
	that.connections[playerID] = conn
}

func (that *Server) connectionOf(playerID string) (*connection, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	conn, ok := that.connections[playerID]

	return conn, ok
}

func (that *Server) handleDisconnect(conn *connection) {
	that.connectionsMutex.Lock()
	if current, ok := that.connections[conn.playerID]; ok && current == conn {
		delete(that.connections, conn.playerID)
	}
	that.connectionsMutex.Unlock()

	if err := conn.conn.Close(); err != nil {
		that.logger.Debug("failed to close connection", "error", err)
	}

	if conn.playerID != "" {
		that.logger.Info("player disconnected", "playerID", conn.playerID)
	}
}

func (that *Server) closeConnections() {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	for _, conn := range that.connections {
		_ = conn.conn.Close()
	}
}
