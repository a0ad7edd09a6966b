// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// jpegFileExt is appended to extracted JPEG file names.
const jpegFileExt = ".jpg"

// extractWorkItem stores one source photo with its prepared output name.
type extractWorkItem struct {
	src  string
	name string
}

// JpegFileName returns a filesystem-safe JPEG file name built from the title,
// or from fallback when the title is empty.
func (p *Photo) JpegFileName(fallback string) string {
	name := strings.TrimSpace(p.Title())
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	if name == "" {
		name = "photo"
	}

	return SanitizeFileName(name + jpegFileExt)
}

// ExtractJpeg writes the embedded JPEG payload to path using mode.
func (p *Photo) ExtractJpeg(path string, mode ExtractFileMode) error {
	if err := p.checkOpen(); err != nil {
		return err
	}

	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}

	if len(p.data.Jpeg) == 0 {
		return ErrNoJpeg
	}

	if mode == "" {
		mode = ExtractFileModeAuto
	}

	if _, err := writeJpegFile(path, p.data.Jpeg, mode); err != nil {
		return fmt.Errorf("extract jpeg to %s: %w", path, err)
	}

	return nil
}

// ExtractJpegs loads photo files and writes their JPEG payloads to dstDir.
// Output names derive from source file names; collisions get a "~N" suffix.
// Extraction is parallelized by MaxWorkers; on failure it returns the first encountered error.
func ExtractJpegs(ctx context.Context, photoPaths []string, dstDir string, opts ExtractOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if len(photoPaths) == 0 {
		return nil
	}

	fileMode := opts.FileMode
	if fileMode == "" {
		fileMode = ExtractFileModeAuto
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	workItems, err := prepareExtractWorkItems(photoPaths)
	if err != nil {
		return err
	}

	workers = min(workers, len(workItems))
	taskCh := make(chan extractWorkItem, len(workItems))
	errCh := make(chan error, len(workItems))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			photo := NewWithOptions(opts.Options)
			defer func() { _ = photo.Close() }()

			for task := range taskCh {
				err := extractPreparedPhoto(ctx, photo, dstRootAbs, task, fileMode, opts.OnPhotoDone)
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		})
	}

	for _, task := range workItems {
		select {
		case <-ctx.Done():
			close(taskCh)
			wg.Wait()
			return ctx.Err()
		case taskCh <- task:
		}
	}

	close(taskCh)
	wg.Wait()
	close(errCh)

	var first error
	for err := range errCh {
		if err != nil && first == nil {
			first = err
		}
	}

	if first == nil {
		first = ctx.Err()
	}

	return first
}

// prepareExtractWorkItems validates source paths and assigns unique output names.
func prepareExtractWorkItems(photoPaths []string) ([]extractWorkItem, error) {
	names := newUniqueNames()
	items := make([]extractWorkItem, 0, len(photoPaths))
	for _, src := range photoPaths {
		src = strings.TrimSpace(src)
		if src == "" {
			return nil, ErrInvalidPath
		}

		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		name, err := names.claim(SanitizeFileName(base + jpegFileExt))
		if err != nil {
			return nil, err
		}

		items = append(items, extractWorkItem{src: src, name: name})
	}

	return items, nil
}

// extractPreparedPhoto loads one source photo and writes its JPEG under dstRootAbs.
func extractPreparedPhoto(
	ctx context.Context,
	photo *Photo,
	dstRootAbs string,
	task extractWorkItem,
	fileMode ExtractFileMode,
	onPhotoDone func(photoPath string, written int64, outputPath string),
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := photo.LoadFile(task.src); err != nil {
		return fmt.Errorf("load %s: %w", task.src, err)
	}

	if photo.JpegSize() == 0 {
		return fmt.Errorf("%s: %w", task.src, ErrNoJpeg)
	}

	outPath := filepath.Join(dstRootAbs, task.name)
	written, err := writeJpegFile(outPath, photo.data.Jpeg, fileMode)
	if err != nil {
		return fmt.Errorf("extract %s: %w", task.src, err)
	}

	photo.opts.Logger.Debug("photo jpeg extracted",
		zap.String("photo", task.src),
		zap.String("output", outPath),
		zap.Int64("size", written),
	)

	if onPhotoDone != nil {
		onPhotoDone(task.src, written, outPath)
	}

	return nil
}

// writeJpegFile writes jpeg to path according to mode and returns written byte count.
func writeJpegFile(path string, jpeg []byte, mode ExtractFileMode) (int64, error) {
	file, needsTruncate, err := openExtractFile(path, mode, int64(len(jpeg)))
	if err != nil {
		return 0, fmt.Errorf("open output: %w", err)
	}

	n, writeErr := file.Write(jpeg)
	if writeErr == nil && n != len(jpeg) {
		writeErr = io.ErrShortWrite
	}

	written := int64(n)
	if writeErr == nil && needsTruncate {
		if truncErr := file.Truncate(written); truncErr != nil {
			_ = file.Close()
			return written, fmt.Errorf("truncate output: %w", truncErr)
		}
	}

	closeErr := file.Close()
	if writeErr != nil {
		return written, fmt.Errorf("write output: %w", writeErr)
	}

	if closeErr != nil {
		return written, fmt.Errorf("close output: %w", closeErr)
	}

	return written, nil
}

// openExtractFile opens output path according to selected extract file mode.
func openExtractFile(path string, mode ExtractFileMode, expectedSize int64) (*os.File, bool, error) {
	switch mode {
	case ExtractFileModeAuto:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return file, false, nil
		}

		if !os.IsExist(err) {
			return nil, false, err
		}

		file, truncErr := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		return file, false, truncErr
	case ExtractFileModeOverwriteSmart:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o600)
		if err != nil {
			return nil, false, err
		}

		info, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return nil, false, err
		}

		return file, info.Size() > expectedSize, nil
	case ExtractFileModeTruncate:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		return file, false, err
	case ExtractFileModeCreateOnly:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		return file, false, err
	default:
		return nil, false, fmt.Errorf("unknown extract file mode %q", mode)
	}
}
