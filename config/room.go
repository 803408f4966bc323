package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// DefaultRoomName is used when no room file is available.
const DefaultRoomName = "Board Room"

// Room is the meeting room whose occupancy the kiosk footer shows. It is
// loaded once at startup and passed by value afterwards.
type Room struct {
	Name string `json:"roomName"`
}

// LoadRoom reads the room file at cfg.ConfigPath. A missing file is a warning
// and an unreadable one an error; both fall back to cfg.DefaultName.
func LoadRoom(cfg RoomConfig, logger *zap.Logger) Room {
	fallback := Room{Name: cfg.DefaultName}
	if fallback.Name == "" {
		fallback.Name = DefaultRoomName
	}

	data, err := os.ReadFile(cfg.ConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("room config file not found, using default",
			zap.String("path", cfg.ConfigPath), zap.String("room", fallback.Name))
		return fallback
	}
	if err != nil {
		logger.Error("failed to read room config, using default",
			zap.String("path", cfg.ConfigPath), zap.Error(err))
		return fallback
	}

	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		logger.Error("failed to parse room config, using default",
			zap.String("path", cfg.ConfigPath), zap.Error(err))
		return fallback
	}
	if room.Name == "" {
		logger.Warn("room config has no roomName, using default", zap.String("path", cfg.ConfigPath))
		return fallback
	}

	logger.Info("room config loaded", zap.String("room", room.Name))
	return room
}
