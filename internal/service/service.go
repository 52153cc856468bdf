// Package service provides business-logic for the app
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/UnendingLoop/ImageResizer/internal/imageproc"
	"github.com/UnendingLoop/ImageResizer/internal/model"
	"github.com/UnendingLoop/ImageResizer/internal/worker"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// ResizeService runs single-image and batch resizes. Human-readable progress
// goes to the status writer; diagnostics go to the structured logger.
type ResizeService struct {
	status io.Writer
	log    zlog.Zerolog
	mu     sync.Mutex // serializes status lines when batch runs parallel
}

func NewResizeService(status io.Writer) *ResizeService {
	if status == nil {
		status = io.Discard
	}
	return &ResizeService{status: status, log: zlog.Logger}
}

// DeriveOutputPath builds the default output path for inputPath:
// {basename}_{W}x{H}{ext} in the same directory.
func DeriveOutputPath(inputPath string, w, h int) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return fmt.Sprintf("%s_%dx%d%s", base, w, h, ext)
}

// Resize performs one resize operation. Failures never escape as panics -
// the outcome is always a Result with the classification carried in Err.
func (s *ResizeService) Resize(req model.ResizeRequest) model.Result {
	w, h := req.Width, req.Height
	if w == 0 {
		w = model.DefaultTargetWidth
	}
	if h == 0 {
		h = model.DefaultTargetHeight
	}

	out := req.OutputPath
	if out == "" {
		out = DeriveOutputPath(req.InputPath, w, h)
	}

	res := model.Result{InputPath: req.InputPath, OutputPath: out}

	origW, origH, copied, err := imageproc.ResizeFile(req.InputPath, out, w, h)
	res.OriginalWidth = origW
	res.OriginalHeight = origH
	res.Copied = copied

	if origW > 0 {
		s.printf("Original image size: %d x %d\n", origW, origH)
		if origW != model.ExpectedSourceWidth || origH != model.ExpectedSourceHeight {
			s.printf("Warning: input image is not %dx%d. Proceeding with resize...\n",
				model.ExpectedSourceWidth, model.ExpectedSourceHeight)
		}
	}

	if err != nil {
		res.Err = err
		s.log.Error().Err(err).Str("input", req.InputPath).Msg("Failed to resize image")
		s.printf("Error: %v\n", err)
		return res
	}

	s.printf("Successfully resized image to %d x %d\n", w, h)
	s.printf("Saved to: %s\n", out)
	return res
}

// ResizeDir resizes every file in job.InputDir (non-recursive) whose name
// matches one of the accepted extensions, writing results under the output
// directory with original names preserved. One bad file never aborts the
// run; its failure is logged and the loop moves on. The returned error
// covers only setup: an unreadable input directory or an uncreatable
// output directory.
func (s *ResizeService) ResizeDir(ctx context.Context, job model.BatchJob) (model.BatchReport, error) {
	if job.OutputDir == "" {
		job.OutputDir = filepath.Join(job.InputDir, model.DefaultBatchSubdir)
	}
	if len(job.Extensions) == 0 {
		job.Extensions = model.DefaultExtensions
	}
	if job.Width == 0 {
		job.Width = model.DefaultTargetWidth
	}
	if job.Height == 0 {
		job.Height = model.DefaultTargetHeight
	}

	report := model.BatchReport{OutputDir: job.OutputDir}

	entries, err := os.ReadDir(job.InputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, fmt.Errorf("%w: %q", model.ErrNotFound, job.InputDir)
		}
		return report, fmt.Errorf("%w: %v", model.ErrNotDirectory, err)
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return report, fmt.Errorf("%w: %v", model.ErrIO, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if model.MatchesExtension(e.Name(), job.Extensions) {
			files = append(files, e.Name())
		}
	}

	var mu sync.Mutex
	collect := func(res model.Result) {
		mu.Lock()
		defer mu.Unlock()
		report.Results = append(report.Results, res)
		if res.OK() {
			report.Processed++
		}
	}

	if job.Workers > 1 {
		pool := worker.NewPool(job.Workers)
		for _, name := range files {
			pool.Submit(ctx, func() {
				collect(s.processEntry(job, name))
			})
		}
		pool.Wait()
	} else {
		for _, name := range files {
			select {
			case <-ctx.Done():
				s.log.Warn().Str("dir", job.InputDir).Msg("Batch interrupted, stopping")
				return s.finishBatch(report), nil
			default:
			}
			collect(s.processEntry(job, name))
		}
	}

	return s.finishBatch(report), nil
}

func (s *ResizeService) processEntry(job model.BatchJob, name string) model.Result {
	taskID := uuid.New()
	s.printf("\nProcessing: %s\n", name)
	s.log.Info().
		Str("task_id", taskID.String()).
		Str("file", name).
		Msg("Batch: processing file")

	res := s.Resize(model.ResizeRequest{
		InputPath:  filepath.Join(job.InputDir, name),
		OutputPath: filepath.Join(job.OutputDir, name),
		Width:      job.Width,
		Height:     job.Height,
	})
	res.TaskID = taskID

	if !res.OK() {
		s.log.Error().Err(res.Err).
			Str("task_id", taskID.String()).
			Str("file", name).
			Msg("Batch: file skipped after failure")
	}
	return res
}

func (s *ResizeService) finishBatch(report model.BatchReport) model.BatchReport {
	s.printf("\n%s\n", strings.Repeat("=", 50))
	s.printf("Batch processing complete! Processed %d images.\n", report.Processed)
	s.printf("Output folder: %s\n", report.OutputDir)
	return report
}

func (s *ResizeService) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.status, format, args...)
}
