package qrgen

import (
	"bytes"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	gen, err := New("low", 410, testLogger())
	require.NoError(t, err)
	return gen
}

func TestWriteFileCreatesNonEmptyPNG(t *testing.T) {
	gen := newTestGenerator(t)
	output := filepath.Join(t.TempDir(), "test_qr.png")

	n, err := gen.WriteFile(Request{Target: "https://example.com", OutputPath: output})
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err, "QR code image file was not created")
	assert.Greater(t, info.Size(), int64(0), "QR code image file is empty")
	assert.Equal(t, int64(n), info.Size())
}

func TestWriteFileDefaultRun(t *testing.T) {
	gen := newTestGenerator(t)
	output := filepath.Join(t.TempDir(), "website_qr.png")

	_, err := gen.WriteFile(Request{Target: "https://irishlab.io", OutputPath: output})
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteFileOverwritesExisting(t *testing.T) {
	gen := newTestGenerator(t)
	output := filepath.Join(t.TempDir(), "qr.png")

	_, err := gen.WriteFile(Request{Target: "https://example.com", OutputPath: output})
	require.NoError(t, err)
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	// Same arguments leave the same post-condition.
	_, err = gen.WriteFile(Request{Target: "https://example.com", OutputPath: output})
	require.NoError(t, err)
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.NotEmpty(t, second)
	assert.Equal(t, first, second)
}

func TestWriteFileBadPath(t *testing.T) {
	gen := newTestGenerator(t)

	_, err := gen.WriteFile(Request{
		Target:     "https://example.com",
		OutputPath: filepath.Join(t.TempDir(), "no-such-dir", "qr.png"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write QR code image")
}

func TestEncodeProducesDecodablePNG(t *testing.T) {
	gen := newTestGenerator(t)

	data, err := gen.Encode("https://example.com")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 410, img.Bounds().Dx())
	assert.Equal(t, 410, img.Bounds().Dy())
}

func TestEncodeOverCapacityFails(t *testing.T) {
	gen, err := New("highest", 410, testLogger())
	require.NoError(t, err)

	// Version 40 at the highest recovery level caps out well below 4000
	// bytes; the encoder must fail loudly rather than truncate.
	_, err = gen.Encode(strings.Repeat("x", 4000))
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    qrcode.RecoveryLevel
		wantErr bool
	}{
		{in: "low", want: qrcode.Low},
		{in: "L", want: qrcode.Low},
		{in: "medium", want: qrcode.Medium},
		{in: "high", want: qrcode.High},
		{in: "HIGHEST", want: qrcode.Highest},
		{in: "h", want: qrcode.Highest},
		{in: "ultra", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "level %q", tt.in)
			continue
		}
		require.NoError(t, err, "level %q", tt.in)
		assert.Equal(t, tt.want, got, "level %q", tt.in)
	}
}

func TestLevelStringRoundTrip(t *testing.T) {
	for _, name := range []string{"low", "medium", "high", "highest"} {
		lvl, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, name, LevelString(lvl))
	}
}

func TestNewRejectsBadInputs(t *testing.T) {
	_, err := New("low", 0, testLogger())
	assert.Error(t, err)

	_, err = New("bogus", 410, testLogger())
	assert.Error(t, err)
}

func TestTerminalWritesOutput(t *testing.T) {
	gen := newTestGenerator(t)

	var buf bytes.Buffer
	gen.Terminal("https://example.com", &buf)
	assert.NotZero(t, buf.Len())
}
