package baseline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"codetidy/internal/diag"
	"codetidy/internal/errcode"
)

func sampleBag(root string) *diag.Bag {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.DocMissingDoctest, diag.At(filepath.Join(root, "docs", "E0003.md")),
		"`"+filepath.ToSlash(filepath.Join(root, "docs", "E0003.md"))+"` doesn't use its own error code in compile_fail example").
		WithCode(errcode.Code("E0003")))
	bag.Add(diag.NewError(diag.UseUndeclared, diag.AtLine(filepath.Join(root, "src", "lib.rs"), 3), "Error code `E0999` is used but not declared").
		WithCode(errcode.Code("E0999")))
	return bag
}

func TestRoundTripSuppressesAll(t *testing.T) {
	root := t.TempDir()
	bag := sampleBag(root)
	path := filepath.Join(root, ".codetidy", "baseline.msgpack")

	if err := Write(path, FromBag(bag, root)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	p, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Entry{
		{Rule: "DOC2005", Code: "E0003", Path: "docs/E0003.md", Message: "`docs/E0003.md` doesn't use its own error code in compile_fail example"},
		{Rule: "USE4001", Code: "E0999", Path: "src/lib.rs", Message: "Error code `E0999` is used but not declared"},
	}
	if diff := cmp.Diff(want, p.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	kept, suppressed := New(p).Filter(bag, root)
	if kept.Len() != 0 || suppressed != 2 {
		t.Fatalf("kept=%d suppressed=%d, want 0/2", kept.Len(), suppressed)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestFilterAcrossRoots(t *testing.T) {
	oldRoot := t.TempDir()
	newRoot := t.TempDir()
	b := New(FromBag(sampleBag(oldRoot), oldRoot))

	kept, suppressed := b.Filter(sampleBag(newRoot), newRoot)
	if kept.Len() != 0 || suppressed != 2 {
		t.Fatalf("relocated checkout: kept=%d suppressed=%d", kept.Len(), suppressed)
	}
}

func TestFilterKeepsNewFindings(t *testing.T) {
	root := t.TempDir()
	b := New(FromBag(sampleBag(root), root))

	bag := sampleBag(root)
	fresh := diag.NewError(diag.UseUndeclared, diag.AtLine(filepath.Join(root, "src", "lib.rs"), 9), "Error code `E0998` is used but not declared").
		WithCode(errcode.Code("E0998"))
	bag.Add(fresh)
	// тот же отпечаток второй раз baseline не покрывает
	bag.Add(bag.Items()[1])

	kept, suppressed := b.Filter(bag, root)
	if suppressed != 2 {
		t.Fatalf("suppressed = %d, want 2", suppressed)
	}
	if kept.Len() != 2 {
		t.Fatalf("kept = %d, want 2", kept.Len())
	}
	if got := kept.Items()[0].Code; got != "E0998" {
		t.Fatalf("first kept finding = %s, want E0998", got)
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d", b.Len())
	}
}

func TestReadRejectsOtherSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.msgpack")
	data, err := msgpack.Marshal(&Payload{Schema: SchemaVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); !errors.Is(err, ErrSchema) {
		t.Fatalf("Read error = %v, want ErrSchema", err)
	}
}

func TestReadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.msgpack")
	if err := os.WriteFile(path, []byte{0xc1}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewNil(t *testing.T) {
	b := New(nil)
	kept, suppressed := b.Filter(sampleBag("/r"), "/r")
	if kept.Len() != 2 || suppressed != 0 {
		t.Fatalf("empty baseline should keep everything")
	}
}
