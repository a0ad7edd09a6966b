package ragephoto

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestEditorCommit_TitleDescriptionStrip(t *testing.T) {
	t.Parallel()

	photoPath := writeTestPhoto(t, newFixture(FormatGTA5))

	editor, err := OpenEditor(photoPath, EditOptions{BackupKeep: 0})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}

	if err := editor.SetTitle("Edited"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if err := editor.SetDescription("new description"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if err := editor.StripJSON(pathrules.Rule{Action: pathrules.ActionExclude, Pattern: "loc"}); err != nil {
		t.Fatalf("StripJSON: %v", err)
	}

	res, err := editor.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if res.Operations != 3 || res.Format != FormatGTA5 {
		t.Fatalf("unexpected result: %+v", res)
	}

	p, err := Open(photoPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.Title() != "Edited" || p.Description() != "new description" {
		t.Fatalf("title=%q description=%q", p.Title(), p.Description())
	}
	if p.JSON() != `{"area":"SANAND","sign":0}` {
		t.Fatalf("JSON()=%s", p.JSON())
	}

	info, err := os.Stat(photoPath)
	if err != nil {
		t.Fatal(err)
	}
	if int(info.Size()) != res.Size {
		t.Fatalf("file size=%d, result size=%d", info.Size(), res.Size)
	}

	if _, err := os.Stat(photoPath + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf(".bak must be removed for BackupKeep=0, stat err=%v", err)
	}
}

func TestEditorCommit_RetargetAndSign(t *testing.T) {
	t.Parallel()

	photoPath := writeTestPhoto(t, newFixture(FormatGTA5))

	editor, err := OpenEditor(photoPath, EditOptions{})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}

	if err := editor.Retarget(0x02000000); !errors.Is(err, IncompatibleFormat) {
		t.Fatalf("Retarget(unknown) err=%v, want IncompatibleFormat", err)
	}
	if err := editor.Retarget(FormatRDR2); err != nil {
		t.Fatalf("Retarget: %v", err)
	}
	if err := editor.UpdateSign(); err != nil {
		t.Fatalf("UpdateSign: %v", err)
	}

	res, err := editor.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	p, err := Open(photoPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.Format() != FormatRDR2 || res.Format != FormatRDR2 {
		t.Fatalf("format file=%v result=%v, want RDR2", p.Format(), res.Format)
	}
	if res.Sign != p.Sign() {
		t.Fatalf("result sign=%d, photo sign=%d", res.Sign, p.Sign())
	}

	want := `{"loc":{"x":1.5,"y":2,"z":3},"area":"SANAND","sign":` + strconv.FormatUint(p.Sign(), 10) + `}`
	if p.JSON() != want {
		t.Fatalf("JSON()=%s, want %s", p.JSON(), want)
	}
}

func TestEditorCommit_SetJpegFromOptionsFormat(t *testing.T) {
	t.Parallel()

	photoPath := writeTestPhoto(t, newFixture(FormatRDR2))
	jpeg := sampleJpeg(300)

	editor, err := OpenEditor(photoPath, EditOptions{Format: FormatGTA5})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := editor.SetJpeg(jpeg); err != nil {
		t.Fatalf("SetJpeg: %v", err)
	}
	jpeg[0] = 0

	if _, err := editor.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	p, err := Open(photoPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.Format() != FormatGTA5 {
		t.Fatalf("Format()=%v, want GTA5", p.Format())
	}
	if !bytes.Equal(p.Jpeg(), sampleJpeg(300)) {
		t.Fatal("jpeg payload mismatch or staged jpeg not copied")
	}
}

func TestEditorCommit_InvalidJSONRollsBack(t *testing.T) {
	t.Parallel()

	f := newFixture(FormatGTA5)
	f.json = "[1]"
	photoPath := writeTestPhoto(t, f)

	original, err := os.ReadFile(photoPath)
	if err != nil {
		t.Fatal(err)
	}

	editor, err := OpenEditor(photoPath, EditOptions{BackupKeep: 1})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := editor.SetTitle("never written"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if err := editor.UpdateSign(); err != nil {
		t.Fatalf("UpdateSign: %v", err)
	}

	if _, err := editor.Commit(context.Background()); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("Commit err=%v, want ErrInvalidJSON", err)
	}

	got, err := os.ReadFile(photoPath)
	if err != nil {
		t.Fatalf("read restored photo: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Fatal("photo must be restored after failed commit")
	}

	if _, err := os.Stat(photoPath + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf(".bak must not remain after rollback, stat err=%v", err)
	}
}

func TestEditorCommit_GrownJpegBuffer(t *testing.T) {
	t.Parallel()

	photoPath := writeTestPhoto(t, newFixture(FormatGTA5))

	editor, err := OpenEditor(photoPath, EditOptions{})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := editor.SetJpeg(sampleJpeg(DefaultGTA5PhotoBuffer + 1)); err != nil {
		t.Fatalf("SetJpeg: %v", err)
	}
	if err := editor.SetTitle("ok"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}

	if _, err := editor.Commit(context.Background()); err != nil {
		t.Fatalf("Commit with grown jpeg: %v", err)
	}

	p, err := Open(photoPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = p.Close() }()

	if got, want := p.JpegBuffer(), uint32(DefaultGTA5PhotoBuffer+1); got != want {
		t.Fatalf("JpegBuffer()=%d, want %d", got, want)
	}
}

func TestEditorCommit_CanceledContext(t *testing.T) {
	t.Parallel()

	photoPath := writeTestPhoto(t, newFixture(FormatGTA5))
	original, err := os.ReadFile(photoPath)
	if err != nil {
		t.Fatal(err)
	}

	editor, err := OpenEditor(photoPath, EditOptions{})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := editor.SetTitle("canceled"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := editor.Commit(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Commit err=%v, want context.Canceled", err)
	}

	got, err := os.ReadFile(photoPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, original) {
		t.Fatal("photo changed by canceled commit")
	}
}

func TestEditorCommit_BackupKeepPolicies(t *testing.T) {
	t.Parallel()

	t.Run("keep1 keeps bak", func(t *testing.T) {
		t.Parallel()

		photoPath := writeTestPhoto(t, newFixture(FormatGTA5))
		commitTitle(t, photoPath, "v1", 1)

		if title := readTitleFromFile(t, photoPath+".bak"); title != "Sunset" {
			t.Fatalf("bak title=%q, want Sunset", title)
		}
	})

	t.Run("keep2 rotates backups", func(t *testing.T) {
		t.Parallel()

		photoPath := writeTestPhoto(t, newFixture(FormatGTA5))
		commitTitle(t, photoPath, "v1", 2)
		commitTitle(t, photoPath, "v2", 2)

		if title := readTitleFromFile(t, photoPath); title != "v2" {
			t.Fatalf("current title=%q, want v2", title)
		}
		if title := readTitleFromFile(t, photoPath+".bak"); title != "v1" {
			t.Fatalf("current bak title=%q, want v1", title)
		}
		if title := readTitleFromFile(t, photoPath+".bak.1"); title != "Sunset" {
			t.Fatalf("previous bak title=%q, want Sunset", title)
		}
	})
}

func TestOpenEditor_InvalidPath(t *testing.T) {
	t.Parallel()

	if _, err := OpenEditor("  ", EditOptions{}); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("OpenEditor err=%v, want ErrInvalidPath", err)
	}
}

func writeTestPhoto(t *testing.T, f photoFixture) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "PGTA5123456789")
	if err := os.WriteFile(path, f.bytes(), 0o600); err != nil {
		t.Fatalf("write test photo: %v", err)
	}

	return path
}

func commitTitle(t *testing.T, path string, title string, keep int) {
	t.Helper()

	editor, err := OpenEditor(path, EditOptions{BackupKeep: keep})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := editor.SetTitle(title); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if _, err := editor.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func readTitleFromFile(t *testing.T, path string) string {
	t.Helper()

	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open %s: %v", path, err)
	}
	defer func() { _ = p.Close() }()

	return p.Title()
}
