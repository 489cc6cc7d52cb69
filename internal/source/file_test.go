package source

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVirtualLineIdx проверяет правильность построения LineIdx
func TestVirtualLineIdx(t *testing.T) {
	file := Virtual("a.md", []byte("a\nb\n"))

	expected := []uint32{1, 3} // позиции символов \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.LineCount() != 2 {
		t.Errorf("Expected 2 lines, got %d", file.LineCount())
	}
}

// TestCRLFNormalization проверяет нормализацию CRLF
func TestCRLFNormalization(t *testing.T) {
	original := []byte("a\r\nb\r\n")
	normalized, changed := normalizeCRLF(original)
	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}
	if string(normalized) != "a\nb\n" {
		t.Errorf("Expected normalized content %q, got %q", "a\nb\n", string(normalized))
	}

	file := Virtual("crlf.md", original)
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
	if got := file.GetLine(1); got != "a" {
		t.Errorf("GetLine(1) = %q, want %q", got, "a")
	}
}

// TestBOMRemoval проверяет удаление BOM
func TestBOMRemoval(t *testing.T) {
	bomContent := []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}
	withoutBOM, hadBOM := removeBOM(bomContent)
	if !hadBOM {
		t.Error("Expected BOM to be detected")
	}
	if string(withoutBOM) != "x\n" {
		t.Errorf("Expected content without BOM %q, got %q", "x\n", string(withoutBOM))
	}

	file := Virtual("bom.md", bomContent)
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
}

func TestNFCNormalization(t *testing.T) {
	// "e" + combining acute accent
	decomposed := []byte("cafe\u0301\n")
	file := Virtual("nfc.md", decomposed)
	if file.Flags&FileNormalizedNFC == 0 {
		t.Fatal("Expected FileNormalizedNFC flag to be set")
	}
	if got := file.GetLine(1); got != "caf\u00e9" {
		t.Fatalf("GetLine(1) = %q, want composed form", got)
	}

	plain := Virtual("ascii.md", []byte("plain\n"))
	if plain.Flags&FileNormalizedNFC != 0 {
		t.Fatal("ASCII content should not be flagged as normalized")
	}
}

func TestLinesIteration(t *testing.T) {
	file := Virtual("l.md", []byte("one\n\nthree"))
	var got []string
	var nums []uint32
	for n, line := range file.Lines() {
		nums = append(nums, n)
		got = append(got, line)
	}
	want := []string{"one", "", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] || nums[i] != uint32(i+1) {
			t.Errorf("line %d = (%d, %q), want (%d, %q)", i, nums[i], got[i], i+1, want[i])
		}
	}

	empty := Virtual("empty.md", nil)
	for range empty.Lines() {
		t.Fatal("empty file should yield no lines")
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "E0001.md")
	if err := os.WriteFile(path, []byte("# E0001\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.Flags&FileVirtual != 0 {
		t.Error("disk file must not be virtual")
	}
	if string(file.Content) != "# E0001\n" {
		t.Errorf("unexpected content %q", file.Content)
	}
	if file.Ext() != ".md" {
		t.Errorf("Ext() = %q", file.Ext())
	}
	if _, err := Load(filepath.Join(dir, "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatPathModes(t *testing.T) {
	if got := FormatPath("/very/long/path/that/is/definitely/over/forty/chars/E0001.md", "auto", ""); got != "E0001.md" {
		t.Errorf("auto long = %q", got)
	}
	if got := FormatPath("docs/E0001.md", "auto", ""); got != "docs/E0001.md" {
		t.Errorf("auto short = %q", got)
	}
	if got := FormatPath("/a/b/E0001.md", "basename", ""); got != "E0001.md" {
		t.Errorf("basename = %q", got)
	}
	if got := FormatPath("/a/b/E0001.md", "relative", "/a"); got != "b/E0001.md" {
		t.Errorf("relative = %q", got)
	}
}
