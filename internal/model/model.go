// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Default target resolution - the tool exists to turn 2048x2048 textures into 1024x1024 ones.
const (
	DefaultTargetWidth  = 1024
	DefaultTargetHeight = 1024

	ExpectedSourceWidth  = 2048
	ExpectedSourceHeight = 2048
)

// DefaultBatchSubdir is created under the input directory when no output directory is given.
const DefaultBatchSubdir = "resized_1024"

// DefaultExtensions - files picked up by batch mode, matched as case-insensitive name suffixes.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

//---------------------

var (
	ErrNotFound      error = errors.New("input file not found")
	ErrDecode        error = errors.New("file is not a decodable image")
	ErrIO            error = errors.New("failed to read or write image file")
	ErrBadDimensions error = errors.New("target dimensions must be positive")
	ErrNotDirectory  error = errors.New("input path is not a directory")
)

//---------------------

// ResizeRequest describes one resize operation. Empty OutputPath means
// "derive from InputPath": {basename}_{W}x{H}{ext} next to the input.
type ResizeRequest struct {
	InputPath  string
	OutputPath string
	Width      int
	Height     int
}

// Result is the outcome of one resize: never a panic, always a value.
// Copied is set when the input already had the target dimensions and the
// file bytes were copied verbatim instead of being resampled. TaskID is
// assigned by batch mode and ties the result to its log lines; single-image
// runs leave it as uuid.Nil.
type Result struct {
	TaskID         uuid.UUID
	InputPath      string
	OutputPath     string
	OriginalWidth  int
	OriginalHeight int
	Copied         bool
	Err            error
}

func (r Result) OK() bool {
	return r.Err == nil
}

//---------------------

// BatchJob describes a directory run. Zero-value fields fall back to
// defaults: OutputDir to {InputDir}/resized_1024, Extensions to
// DefaultExtensions, Width/Height to the 1024 defaults, Workers to 1.
type BatchJob struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	Width      int
	Height     int
	Workers    int
}

// BatchReport - aggregate outcome of a batch run. Processed counts only
// successes; failures stay visible through Results.
type BatchReport struct {
	OutputDir string
	Processed int
	Results   []Result
}

// MatchesExtension reports whether name ends with one of exts, case-insensitively.
func MatchesExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
