package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchesExtension(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		exts  []string
		match bool
	}{
		{"lowercase", "photo.jpg", DefaultExtensions, true},
		{"uppercase extension", "image.PNG", DefaultExtensions, true},
		{"mixed case", "scan.JpEg", DefaultExtensions, true},
		{"not an image", "notes.txt", DefaultExtensions, false},
		{"extension only as infix", "archive.png.zip", DefaultExtensions, false},
		{"custom list", "frame.webp", []string{".webp"}, true},
		{"uppercase in accepted list", "frame.webp", []string{".WEBP"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.match, MatchesExtension(tt.file, tt.exts))
		})
	}
}

func TestResultOK(t *testing.T) {
	require.True(t, Result{}.OK())
	require.False(t, Result{Err: ErrDecode}.OK())
}
