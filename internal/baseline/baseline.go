// Package baseline records accepted findings so that a check can fail only on
// new ones. The file is a msgpack payload with a schema version.
package baseline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"codetidy/internal/diag"
)

// Current schema version - increment when Payload format changes
const SchemaVersion uint16 = 1

// ErrSchema reports a baseline written by an incompatible version.
var ErrSchema = errors.New("baseline schema mismatch")

// Entry is the fingerprint of one finding. Path and Message are relative to
// the checked root so the file survives checkouts in other directories.
type Entry struct {
	Rule    string
	Code    string
	Path    string
	Message string
}

func (e Entry) key() string {
	return e.Rule + "\x00" + e.Code + "\x00" + e.Path + "\x00" + e.Message
}

func compareEntries(a, b Entry) int {
	return strings.Compare(a.key(), b.key())
}

// Payload is the on-disk form.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema  uint16
	Entries []Entry
}

// Baseline is a multiset of fingerprints.
type Baseline struct {
	counts map[string]int
	total  int
}

// Fingerprint turns a finding into an Entry relative to root.
func Fingerprint(d diag.Diagnostic, root string) Entry {
	return Entry{
		Rule:    d.Rule.ID(),
		Code:    string(d.Code),
		Path:    relativize(d.Primary.Path, root),
		Message: stripRoot(d.Message, root),
	}
}

// FromBag builds a payload from every finding of bag, sorted.
func FromBag(bag *diag.Bag, root string) *Payload {
	p := &Payload{Schema: SchemaVersion}
	for _, d := range bag.Items() {
		p.Entries = append(p.Entries, Fingerprint(d, root))
	}
	slices.SortFunc(p.Entries, compareEntries)
	return p
}

// New indexes a payload.
func New(p *Payload) *Baseline {
	b := &Baseline{counts: make(map[string]int)}
	if p == nil {
		return b
	}
	for _, e := range p.Entries {
		b.counts[e.key()]++
		b.total++
	}
	return b
}

// Len returns the number of recorded fingerprints.
func (b *Baseline) Len() int { return b.total }

// Filter returns the findings of bag not covered by the baseline, in order,
// and how many were suppressed. Each recorded fingerprint suppresses at most
// one finding.
func (b *Baseline) Filter(bag *diag.Bag, root string) (*diag.Bag, int) {
	remaining := make(map[string]int, len(b.counts))
	for k, v := range b.counts {
		remaining[k] = v
	}
	suppressed := 0
	kept := bag.Filter(func(d diag.Diagnostic) bool {
		k := Fingerprint(d, root).key()
		if remaining[k] > 0 {
			remaining[k]--
			suppressed++
			return false
		}
		return true
	})
	return kept, suppressed
}

// Write serializes p to path atomically.
func Write(path string, p *Payload) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".baseline-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(p); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode baseline: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, path)
}

// Read loads a payload written by Write.
func Read(path string) (*Payload, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode baseline %s: %w", path, err)
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", path, ErrSchema, p.Schema, SchemaVersion)
	}
	return &p, nil
}

func relativize(path, root string) string {
	if path == "" || root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, filepath.FromSlash(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func stripRoot(msg, root string) string {
	if root == "" {
		return msg
	}
	prefix := filepath.ToSlash(filepath.Clean(root)) + "/"
	return strings.ReplaceAll(msg, prefix, "")
}
