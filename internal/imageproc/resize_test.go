package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/UnendingLoop/ImageResizer/internal/model"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 100, G: 100, B: 200, A: 255})
		}
	}

	require.NoError(t, imaging.Save(img, path))
}

func mustOpen(t *testing.T, path string) image.Image {
	t.Helper()

	img, err := imaging.Open(path)
	require.NoError(t, err)
	require.NotNil(t, img)

	return img
}

func TestResizeFile(t *testing.T) {
	dir := t.TempDir()

	srcPNG := filepath.Join(dir, "src.png")
	writeTestImage(t, srcPNG, 200, 100)

	broken := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("not-an-image"), 0o644))

	tests := []struct {
		name    string
		input   string
		output  string
		x, y    int
		wantErr error
	}{
		{
			name:   "OK resize",
			input:  srcPNG,
			output: filepath.Join(dir, "out.png"),
			x:      50,
			y:      50,
		},
		{
			name:   "OK cross-format",
			input:  srcPNG,
			output: filepath.Join(dir, "out.jpg"),
			x:      64,
			y:      32,
		},
		{
			name:    "missing input",
			input:   filepath.Join(dir, "nope.png"),
			output:  filepath.Join(dir, "never.png"),
			x:       50,
			y:       50,
			wantErr: model.ErrNotFound,
		},
		{
			name:    "broken image",
			input:   broken,
			output:  filepath.Join(dir, "never2.png"),
			x:       50,
			y:       50,
			wantErr: model.ErrDecode,
		},
		{
			name:    "zero dimensions",
			input:   srcPNG,
			output:  filepath.Join(dir, "never3.png"),
			x:       0,
			y:       50,
			wantErr: model.ErrBadDimensions,
		},
		{
			name:    "negative dimensions",
			input:   srcPNG,
			output:  filepath.Join(dir, "never4.png"),
			x:       50,
			y:       -1,
			wantErr: model.ErrBadDimensions,
		},
		{
			name:    "unsupported output extension",
			input:   srcPNG,
			output:  filepath.Join(dir, "out.txt"),
			x:       50,
			y:       50,
			wantErr: model.ErrIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origW, origH, copied, err := ResizeFile(tt.input, tt.output, tt.x, tt.y)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.False(t, copied)
			require.Equal(t, 200, origW)
			require.Equal(t, 100, origH)

			out := mustOpen(t, tt.output)
			require.Equal(t, tt.x, out.Bounds().Dx())
			require.Equal(t, tt.y, out.Bounds().Dy())
		})
	}
}

// A failed resize must not leave an output file behind.
func TestResizeFile_NoOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.png")

	_, _, _, err := ResizeFile(filepath.Join(dir, "missing.png"), output, 50, 50)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = os.Stat(output)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// Same target size + same implied format is a verbatim byte copy.
func TestResizeFile_EqualSizeCopy(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "already.png")
	output := filepath.Join(dir, "copy.png")
	writeTestImage(t, input, 64, 64)

	origW, origH, copied, err := ResizeFile(input, output, 64, 64)
	require.NoError(t, err)
	require.True(t, copied)
	require.Equal(t, 64, origW)
	require.Equal(t, 64, origH)

	want, err := os.ReadFile(input)
	require.NoError(t, err)
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// Same size but a different output format still goes through re-encoding.
func TestResizeFile_EqualSizeDifferentFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "already.png")
	output := filepath.Join(dir, "recoded.jpg")
	writeTestImage(t, input, 64, 64)

	_, _, copied, err := ResizeFile(input, output, 64, 64)
	require.NoError(t, err)
	require.False(t, copied)

	out := mustOpen(t, output)
	require.Equal(t, 64, out.Bounds().Dx())
	require.Equal(t, 64, out.Bounds().Dy())
}

// The copy fast path keys on the sniffed content format: JPEG bytes hiding
// behind a .png name must be re-encoded into a real PNG, not byte-copied.
func TestResizeFile_MisextensionedEqualSize(t *testing.T) {
	dir := t.TempDir()

	realJPEG := filepath.Join(dir, "real.jpg")
	writeTestImage(t, realJPEG, 64, 64)
	jpegData, err := os.ReadFile(realJPEG)
	require.NoError(t, err)

	fake := filepath.Join(dir, "fake.png")
	require.NoError(t, os.WriteFile(fake, jpegData, 0o644))

	output := filepath.Join(dir, "out.png")
	_, _, copied, err := ResizeFile(fake, output, 64, 64)
	require.NoError(t, err)
	require.False(t, copied)

	outData, err := os.ReadFile(output)
	require.NoError(t, err)
	_, name, err := image.DecodeConfig(bytes.NewReader(outData))
	require.NoError(t, err)
	require.Equal(t, "png", name)

	// and the mirror case: content matching the output extension is copied
	// verbatim even though the input extension lies
	jpgOut := filepath.Join(dir, "out.jpg")
	_, _, copied, err = ResizeFile(fake, jpgOut, 64, 64)
	require.NoError(t, err)
	require.True(t, copied)

	got, err := os.ReadFile(jpgOut)
	require.NoError(t, err)
	require.Equal(t, jpegData, got)
}

// The remap is direct: a non-square source lands exactly on the target grid.
func TestResize_NoAspectPreservation(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 100))
	out := Resize(src, 50, 50)

	require.Equal(t, 50, out.Bounds().Dx())
	require.Equal(t, 50, out.Bounds().Dy())
}
