// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/woozymasta/pathrules"
	"go.uber.org/zap"
)

// Editor accumulates photo edit operations and applies them on Commit.
type Editor struct {
	path string
	ops  []editOperation
	opts EditOptions
}

// EditResult describes a committed photo.
type EditResult struct {
	// Format is the written photo format.
	Format Format `json:"format" yaml:"format"`
	// Size is the written file size in bytes.
	Size int `json:"size" yaml:"size"`
	// Sign is the photo sign of the written JPEG.
	Sign uint64 `json:"sign" yaml:"sign"`
	// Operations is the number of applied staged operations.
	Operations int `json:"operations" yaml:"operations"`
}

// editOperation stores one staged editor operation.
type editOperation struct {
	text    string
	jpeg    []byte
	matcher *metadataMatcher
	format  Format
	kind    editOperationKind
}

// editOperationKind identifies staged edit action type.
type editOperationKind uint8

const (
	// editOperationTitle replaces title.
	editOperationTitle editOperationKind = iota + 1
	// editOperationDescription replaces description.
	editOperationDescription
	// editOperationJSON replaces JSON metadata.
	editOperationJSON
	// editOperationJpeg replaces JPEG payload.
	editOperationJpeg
	// editOperationStripJSON removes JSON keys by rules.
	editOperationStripJSON
	// editOperationUpdateSign rewrites the JSON sign field.
	editOperationUpdateSign
	// editOperationRetarget changes output format.
	editOperationRetarget
)

// OpenEditor creates staged editor for file-based photo rewrite workflow.
func OpenEditor(path string, opts EditOptions) (*Editor, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, ErrInvalidPath
	}

	opts.applyDefaults()

	return &Editor{
		path: trimmedPath,
		opts: opts,
		ops:  make([]editOperation, 0, 4),
	}, nil
}

// SetTitle schedules title replacement.
func (e *Editor) SetTitle(title string) error {
	return e.stage(editOperation{kind: editOperationTitle, text: title})
}

// SetDescription schedules description replacement.
func (e *Editor) SetDescription(desc string) error {
	return e.stage(editOperation{kind: editOperationDescription, text: desc})
}

// SetJSON schedules JSON metadata replacement.
func (e *Editor) SetJSON(json string) error {
	return e.stage(editOperation{kind: editOperationJSON, text: json})
}

// SetJpeg schedules JPEG payload replacement. jpeg is copied.
func (e *Editor) SetJpeg(jpeg []byte) error {
	payload := make([]byte, len(jpeg))
	copy(payload, jpeg)
	return e.stage(editOperation{kind: editOperationJpeg, jpeg: payload})
}

// StripJSON schedules removal of JSON metadata keys excluded by rules.
func (e *Editor) StripJSON(rules ...pathrules.Rule) error {
	if e == nil {
		return ErrNilPhoto
	}

	matcher, err := newMetadataMatcher(rules)
	if err != nil {
		return err
	}

	if matcher == nil {
		return nil
	}

	return e.stage(editOperation{kind: editOperationStripJSON, matcher: matcher})
}

// UpdateSign schedules JSON sign field refresh.
func (e *Editor) UpdateSign() error {
	return e.stage(editOperation{kind: editOperationUpdateSign})
}

// Retarget schedules writing the photo in another built-in format.
func (e *Editor) Retarget(format Format) error {
	if !format.Supported() {
		return IncompatibleFormat
	}

	return e.stage(editOperation{kind: editOperationRetarget, format: format})
}

// stage appends operation to the queue.
func (e *Editor) stage(op editOperation) error {
	if e == nil {
		return ErrNilPhoto
	}

	e.ops = append(e.ops, op)
	return nil
}

// Commit applies all staged operations in one rewrite transaction.
// The original file is kept as `<path>.bak` per BackupKeep and restored on failure.
func (e *Editor) Commit(ctx context.Context) (*EditResult, error) {
	if e == nil {
		return nil, ErrNilPhoto
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backupPath := e.path + ".bak"
	if err := prepareBackupSlot(backupPath, e.opts.BackupKeep); err != nil {
		return nil, err
	}

	if err := os.Rename(e.path, backupPath); err != nil {
		return nil, fmt.Errorf("move photo to backup: %w", err)
	}

	res, err := e.commitFromBackup(ctx, backupPath)
	if err != nil {
		rollbackErr := rollbackFromBackup(e.path, backupPath)
		if rollbackErr != nil {
			return nil, fmt.Errorf("%w (rollback failed: %w)", err, rollbackErr)
		}

		return nil, err
	}

	if e.opts.BackupKeep == 0 {
		if err := removeIfExists(backupPath); err != nil {
			return nil, fmt.Errorf("remove backup: %w", err)
		}
	}

	e.opts.Options.Logger.Debug("photo edit committed",
		zap.String("path", e.path),
		zap.Stringer("format", res.Format),
		zap.Int("size", res.Size),
		zap.Int("operations", res.Operations),
	)

	return res, nil
}

// commitFromBackup writes edited photo from backup source.
func (e *Editor) commitFromBackup(ctx context.Context, backupPath string) (*EditResult, error) {
	photo := NewWithOptions(e.opts.Options)
	defer func() { _ = photo.Close() }()

	if err := photo.LoadFile(backupPath); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}

	format := photo.Format()
	if e.opts.Format != FormatUnknown {
		format = e.opts.Format
	}

	for i := range e.ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, err := applyEditOperation(photo, &e.ops[i], format)
		if err != nil {
			return nil, err
		}
		format = next
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := photo.SaveFormat(format)
	if err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}

	dstFile, err := os.OpenFile(e.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create destination photo: %w", err)
	}

	if _, err := dstFile.Write(data); err != nil {
		_ = dstFile.Close()
		return nil, fmt.Errorf("write destination photo: %w", err)
	}

	if err := dstFile.Sync(); err != nil {
		_ = dstFile.Close()
		return nil, fmt.Errorf("sync destination photo: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return nil, fmt.Errorf("close destination photo: %w", err)
	}

	return &EditResult{
		Format:     format,
		Size:       len(data),
		Sign:       photo.SignFormat(format),
		Operations: len(e.ops),
	}, nil
}

// applyEditOperation applies one staged operation and returns output format.
func applyEditOperation(p *Photo, op *editOperation, format Format) (Format, error) {
	switch op.kind {
	case editOperationTitle:
		p.SetTitle(op.text)
	case editOperationDescription:
		p.SetDescription(op.text)
	case editOperationJSON:
		p.SetJSON(op.text)
	case editOperationJpeg:
		p.SetJpeg(op.jpeg)
	case editOperationStripJSON:
		if p.data.JSON == "" {
			return format, nil
		}

		out, err := stripJSONObject(p.data.JSON, "", op.matcher)
		if err != nil {
			return format, fmt.Errorf("strip JSON: %w", err)
		}
		p.SetJSON(out)
	case editOperationUpdateSign:
		if err := p.UpdateSignFormat(format); err != nil {
			return format, fmt.Errorf("update sign: %w", err)
		}
	case editOperationRetarget:
		return op.format, nil
	default:
		return format, fmt.Errorf("unknown edit operation kind: %d", op.kind)
	}

	return format, nil
}

// prepareBackupSlot rotates/removes existing backup generations before new commit.
func prepareBackupSlot(backupPath string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	switch keep {
	case 0, 1:
		return removeIfExists(backupPath)
	default:
		oldest := fmt.Sprintf("%s.%d", backupPath, keep-1)
		if err := removeIfExists(oldest); err != nil {
			return err
		}

		for i := keep - 2; i >= 1; i-- {
			from := fmt.Sprintf("%s.%d", backupPath, i)
			to := fmt.Sprintf("%s.%d", backupPath, i+1)
			if err := renameIfExists(from, to); err != nil {
				return err
			}
		}

		return renameIfExists(backupPath, backupPath+".1")
	}
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// rollbackFromBackup restores backup on failed commit.
func rollbackFromBackup(path string, backupPath string) error {
	_ = os.Remove(path)

	if err := os.Rename(backupPath, path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	return nil
}
