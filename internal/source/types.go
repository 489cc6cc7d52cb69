package source

type (
	// FileFlags encodes metadata about a loaded file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	FileNormalizedCRLF
	// FileNormalizedNFC is set when the content was not in Unicode NFC form.
	FileNormalizedNFC
)

// File captures the normalized content of a single file.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}
