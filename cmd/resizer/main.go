// Package main provides the resizer command-line tool
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/UnendingLoop/ImageResizer/internal/model"
	"github.com/UnendingLoop/ImageResizer/internal/service"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run holds everything between argv and the process exit code, so the
// code mapping stays unit-testable: 0 success, 1 operation failure,
// 2 usage error.
func run(argv []string, status io.Writer) int {
	flags := flag.NewFlagSet("resizer", flag.ContinueOnError)
	batch := flags.Bool("batch", false, "treat the input path as a directory and resize every image in it")
	width := flags.Int("width", model.DefaultTargetWidth, "target width in pixels")
	height := flags.Int("height", model.DefaultTargetHeight, "target height in pixels")
	workers := flags.Int("workers", 0, "parallel workers in batch mode (default 1)")
	exts := flags.String("ext", "", "comma-separated extensions accepted in batch mode (default \".png,.jpg,.jpeg,.bmp,.gif\")")
	flags.Usage = func() { printUsage(flags) }
	if err := flags.Parse(argv); err != nil {
		return 2
	}

	args := flags.Args()
	if len(args) < 1 {
		flags.Usage()
		return 2
	}

	// инициализировать конфиг/ считать энвы - все ключи опциональны
	appConfig := config.New()
	appConfig.EnableEnv("")
	if _, err := os.Stat("./.env"); err == nil {
		if err := appConfig.LoadEnvFiles("./.env"); err != nil {
			log.Fatalf("Failed to load envs: %s\nExiting app...", err)
		}
	}

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel("info"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	svc := service.NewResizeService(status)

	if *batch {
		return runBatch(svc, appConfig, args, *width, *height, *workers, *exts)
	}

	outputPath := ""
	if len(args) > 1 {
		outputPath = args[1]
	}

	res := svc.Resize(model.ResizeRequest{
		InputPath:  args[0],
		OutputPath: outputPath,
		Width:      *width,
		Height:     *height,
	})
	if !res.OK() {
		return 1
	}
	return 0
}

func runBatch(svc *service.ResizeService, appConfig *config.Config, args []string, width, height, workers int, exts string) int {
	// готовим слушатель прерываний - контекст для всего батча
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outputDir := ""
	if len(args) > 1 {
		outputDir = args[1]
	}

	job := model.BatchJob{
		InputDir:   args[0],
		OutputDir:  outputDir,
		Extensions: extensionList(exts, appConfig),
		Width:      width,
		Height:     height,
		Workers:    workerCount(workers, appConfig),
	}

	report, err := svc.ResizeDir(ctx, job)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// a run where every single file failed should not look green
	if report.Processed == 0 && len(report.Results) > 0 {
		return 1
	}
	return 0
}

// workerCount resolves the -workers flag with the RESIZE_WORKERS env as
// fallback; anything unset or unparsable means sequential.
func workerCount(flagValue int, appConfig *config.Config) int {
	if flagValue > 0 {
		return flagValue
	}
	if env := appConfig.GetString("RESIZE_WORKERS"); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil || n < 1 {
			zlog.Logger.Warn().Str("RESIZE_WORKERS", env).Msg("Ignoring invalid workers value from env")
			return 1
		}
		return n
	}
	return 1
}

// extensionList resolves -ext with the RESIZE_EXTENSIONS env as fallback.
func extensionList(flagValue string, appConfig *config.Config) []string {
	raw := flagValue
	if raw == "" {
		raw = appConfig.GetString("RESIZE_EXTENSIONS")
	}
	if raw == "" {
		return nil // ResizeDir falls back to model.DefaultExtensions
	}

	var exts []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

func printUsage(flags *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "Usage: resizer [flags] <input_image> [output_image]")
	fmt.Fprintln(os.Stderr, "       resizer -batch [flags] <input_dir> [output_dir]")
	fmt.Fprintln(os.Stderr, "Example: resizer image_2048.png image_1024.png")
	fmt.Fprintln(os.Stderr, "Flags:")
	flags.PrintDefaults()
}
