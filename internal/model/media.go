package model

import (
	"path/filepath"
	"strings"
)

var mediaExtensions = map[string]bool{
	".jpg":  false,
	".jpeg": false,
	".png":  false,
	".gif":  false,
	".mp4":  true,
	".webm": true,
}

// IsMediaFile reports whether name has a slideshow image or video extension.
func IsMediaFile(name string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// IsVideoFile reports whether name is a slideshow video.
func IsVideoFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}
