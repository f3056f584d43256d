package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNoActiveGames     = errors.New("no active games")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrGameIsFull        = errors.New("game is full")
	ErrUnknownGameStatus = errors.New("unknown game status")
	ErrInvalidMode       = errors.New("invalid game mode")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrNoAvailableMoves  = errors.New("no available moves")
)
