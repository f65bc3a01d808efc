// Package qrgen renders QR codes for target strings as PNG files, raw PNG
// bytes, or terminal block output.
package qrgen

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"github.com/skip2/go-qrcode"
)

// Request describes a single QR code to produce: the string to encode and the
// file path the PNG is written to. Neither field is validated here; an empty
// target still encodes and a bad path surfaces as a write error.
type Request struct {
	Target     string `json:"target"`
	OutputPath string `json:"output_path"`
}

// Generator produces QR code PNGs with a fixed recovery level and image size.
// Colors are fixed to black modules on a white background.
type Generator struct {
	level qrcode.RecoveryLevel
	size  int
	log   *slog.Logger
}

// New creates a Generator. level is one of "low", "medium", "high", "highest"
// and size is the output image edge length in pixels.
func New(level string, size int, log *slog.Logger) (*Generator, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %d", size)
	}
	return &Generator{level: lvl, size: size, log: log}, nil
}

// ParseLevel maps a config string to a go-qrcode recovery level.
func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(s) {
	case "low", "l":
		return qrcode.Low, nil
	case "medium", "m":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("unknown recovery level %q (want low, medium, high or highest)", s)
	}
}

// LevelString renders a recovery level back to its config spelling.
func LevelString(l qrcode.RecoveryLevel) string {
	switch l {
	case qrcode.Medium:
		return "medium"
	case qrcode.High:
		return "high"
	case qrcode.Highest:
		return "highest"
	default:
		return "low"
	}
}

// Encode renders target as PNG bytes using the given level and size. The
// symbol version is chosen automatically; a payload too large for any version
// at the requested level returns the encoder's error.
func Encode(target string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return qrcode.Encode(target, level, size)
}

// Encode renders target as PNG bytes using the generator's defaults.
func (g *Generator) Encode(target string) ([]byte, error) {
	return Encode(target, g.level, g.size)
}

// Size returns the configured output image edge length in pixels.
func (g *Generator) Size() int { return g.size }

// Level returns the configured recovery level.
func (g *Generator) Level() qrcode.RecoveryLevel { return g.level }

// WriteFile encodes req.Target and writes the PNG to req.OutputPath,
// overwriting any existing file. The write is a single os.WriteFile and is not
// atomic. Returns the number of PNG bytes written.
func (g *Generator) WriteFile(req Request) (int, error) {
	g.log.Info("generating QR code", "target", req.Target, "output", req.OutputPath)

	png, err := g.Encode(req.Target)
	if err != nil {
		return 0, fmt.Errorf("encode QR code: %w", err)
	}
	if err := os.WriteFile(req.OutputPath, png, 0o644); err != nil {
		return 0, fmt.Errorf("write QR code image: %w", err)
	}

	g.log.Info("QR code saved", "output", req.OutputPath, "bytes", len(png))
	return len(png), nil
}

// Terminal renders target as block characters to w, for scanning straight
// off a terminal. qrterminal only has three redundancy tiers, so "highest"
// collapses into H.
func (g *Generator) Terminal(target string, w io.Writer) {
	lvl := qrterminal.L
	switch g.level {
	case qrcode.Medium:
		lvl = qrterminal.M
	case qrcode.High, qrcode.Highest:
		lvl = qrterminal.H
	}
	qrterminal.Generate(target, lvl, w)
}
