package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"pastforward/internal/era"
	"pastforward/internal/gen"
	"pastforward/internal/session"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorizeStatus(status string, colorize bool) string {
	if !colorize {
		return status
	}
	switch status {
	case string(session.StatusDone):
		return ansiGreen + status + ansiReset
	case string(session.StatusError):
		return ansiRed + status + ansiReset
	case string(session.StatusPending):
		return ansiYellow + status + ansiReset
	default:
		return status
	}
}

// loadSourceImage reads the photo submitted for a batch.
func loadSourceImage(path string) (gen.Image, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return gen.Image{}, "", fmt.Errorf("source image path is required")
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return gen.Image{}, "", fmt.Errorf("resolve image path: %w", err)
	}
	data, err := os.ReadFile(absolute)
	if err != nil {
		return gen.Image{}, "", fmt.Errorf("read source image: %w", err)
	}
	mimeType := "image/png"
	switch strings.ToLower(filepath.Ext(absolute)) {
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".webp":
		mimeType = "image/webp"
	}
	return gen.Image{Data: data, MimeType: mimeType}, absolute, nil
}

func buildItemRows(keys []era.Key, items map[era.Key]session.ItemRecord, colorize bool) [][]string {
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rec := items[key]
		detail := rec.ImageRef
		if rec.Status == session.StatusError {
			detail = rec.ErrorMessage
		}
		video := string(rec.VideoStatus)
		if video == "" {
			video = string(session.FeatureIdle)
		}
		rows = append(rows, []string{
			string(key),
			colorizeStatus(string(rec.Status), colorize),
			video,
			detail,
		})
	}
	return rows
}
