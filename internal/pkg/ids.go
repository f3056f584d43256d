package pkg

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateNewSessionID - generates a new unique player session id.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateGameID - generates a unique identifier for the game.
func GenerateGameID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}

	return id.String(), nil
}
