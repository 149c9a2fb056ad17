// Package sourcemap implements the Phase-1 chunk builder and Phase-2
// composer described in spec.md §4.E: every print pass accumulates source
// mappings as it emits text, and the result is a standalone "chunk" that the
// host binding can compose with a second pass (the type-stripper's own
// mappings) to produce one sourcemap over the final output.
//
// The encoding follows the standard source-map-v3 VLQ "mappings" format, the
// same scheme esbuild's printer uses, since nothing in the retrieved pack
// ships a sourcemap implementation to ground this on more directly
// (DESIGN.md).
package sourcemap

import (
	"sort"
	"strings"

	"github.com/goastro/compiler/internal/loc"
)

// LineOffsetTable maps a 0-based line number to the byte offset of its first
// character in the original source text, so a byte offset can be resolved
// back to a (line, column) pair with a binary search.
type LineOffsetTable struct {
	ByteOffsetToStartOfLine int
}

// GenerateLineOffsetTables scans contents once and returns one entry per
// line, in order. lineCount is a capacity hint only.
func GenerateLineOffsetTables(contents string, lineCount int) []LineOffsetTable {
	if lineCount < 1 {
		lineCount = 1
	}
	tables := make([]LineOffsetTable, 0, lineCount)
	tables = append(tables, LineOffsetTable{ByteOffsetToStartOfLine: 0})
	for i := 0; i < len(contents); i++ {
		if contents[i] == '\n' {
			tables = append(tables, LineOffsetTable{ByteOffsetToStartOfLine: i + 1})
		}
	}
	return tables
}

// mapping is one source mapping, recorded in generated-output order.
// sourceOffset of -1 means "explicitly unmapped" (addNilSourceMapping).
type mapping struct {
	generatedLine   int
	generatedColumn int
	sourceOffset    int
}

// ChunkBuilder accumulates mappings for one print pass. It is not safe for
// concurrent use; each printer owns exactly one.
type ChunkBuilder struct {
	lineOffsetTables []LineOffsetTable
	mappings         []mapping
}

// MakeChunkBuilder constructs a builder over the original source's line
// table. prev is accepted for API symmetry with a composing caller that
// wants to chain builders, but is otherwise unused — each print pass starts
// its own mapping list.
func MakeChunkBuilder(prev *ChunkBuilder, lineOffsetTables []LineOffsetTable) ChunkBuilder {
	return ChunkBuilder{lineOffsetTables: lineOffsetTables}
}

// GetLineAndColumnForLocation resolves a byte offset in the original source
// into a 1-based line and 0-based column (spec.md §7), via binary search
// over the line-offset table.
func (b *ChunkBuilder) GetLineAndColumnForLocation(location loc.Loc) []int {
	if location.Start < 0 || len(b.lineOffsetTables) == 0 {
		return []int{1, 0}
	}
	tables := b.lineOffsetTables
	i := sort.Search(len(tables), func(i int) bool {
		return tables[i].ByteOffsetToStartOfLine > location.Start
	}) - 1
	if i < 0 {
		i = 0
	}
	return []int{i + 1, location.Start - tables[i].ByteOffsetToStartOfLine}
}

// AddSourceMapping records a mapping from the current end of currentOutput
// (used only to compute the generated line/column) to location. A negative
// Start resets the mapping to "no source", matching addNilSourceMapping's
// call sites throughout the printer.
func (b *ChunkBuilder) AddSourceMapping(location loc.Loc, currentOutput []byte) {
	genLine, genCol := generatedLineAndColumn(currentOutput)
	b.mappings = append(b.mappings, mapping{
		generatedLine:   genLine,
		generatedColumn: genCol,
		sourceOffset:    location.Start,
	})
}

func generatedLineAndColumn(output []byte) (line int, col int) {
	lastNewline := -1
	for i, c := range output {
		if c == '\n' {
			line++
			lastNewline = i
		}
	}
	return line, len(output) - lastNewline - 1
}

// Chunk is the composable unit returned by one print pass: the VLQ-encoded
// mappings string plus the generated line/column the pass ended on, so a
// caller can concatenate several chunks' output and renumber mappings that
// follow.
type Chunk struct {
	Buffer               []byte
	FinalGeneratedLine    int
	FinalGeneratedColumn  int
}

// GenerateChunk finalizes the accumulated mappings for this pass against its
// own output, producing the VLQ payload for the "mappings" field of a
// standalone source map.
func (b *ChunkBuilder) GenerateChunk(output []byte) Chunk {
	var buf strings.Builder
	prevGenLine := 0
	prevGenCol := 0
	prevSourceOffset := 0
	prevSourceLine := 0
	prevSourceCol := 0
	lineHasSegment := false

	for _, m := range b.mappings {
		if m.generatedLine != prevGenLine {
			for i := 0; i < m.generatedLine-prevGenLine; i++ {
				buf.WriteByte(';')
			}
			prevGenLine = m.generatedLine
			prevGenCol = 0
			lineHasSegment = false
		}

		if m.sourceOffset < 0 {
			// An explicit "no mapping" marker: emits no VLQ segment and no
			// separator, and leaves the generated column unchanged, so the
			// next segment on the line stays relative to the last one written.
			continue
		}

		if lineHasSegment {
			buf.WriteByte(',')
		}

		pos := b.GetLineAndColumnForLocation(loc.Loc{Start: m.sourceOffset})
		srcLine := pos[0] - 1
		srcCol := pos[1]

		encodeVLQ(&buf, m.generatedColumn-prevGenCol)
		encodeVLQ(&buf, 0) // single-source chunk: source index is always 0
		encodeVLQ(&buf, srcLine-prevSourceLine)
		encodeVLQ(&buf, srcCol-prevSourceCol)

		prevGenCol = m.generatedColumn
		prevSourceOffset = m.sourceOffset
		prevSourceLine = srcLine
		prevSourceCol = srcCol
		lineHasSegment = true
		_ = prevSourceOffset
	}

	genLine, genCol := generatedLineAndColumn(output)
	return Chunk{
		Buffer:               []byte(buf.String()),
		FinalGeneratedLine:   genLine,
		FinalGeneratedColumn: genCol,
	}
}

const vlqChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func encodeVLQ(buf *strings.Builder, value int) {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & 0x1F
		vlq >>= 5
		if vlq != 0 {
			digit |= 0x20
		}
		buf.WriteByte(vlqChars[digit])
		if vlq == 0 {
			break
		}
	}
}

// RawSourceMap is the standard source-map-v3 wire shape.
type RawSourceMap struct {
	Version        int      `json:"version"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
	File           string   `json:"file,omitempty"`
}

// ComposeChunks concatenates several chunks' mapping strings, in order, into
// one sourcemap. Each printer pass (JS, CSS) produces its own chunk over its
// own output; they are never mixed mid-line, so a straight concatenation
// separated by ';' per chunk boundary is sufficient — no column renumbering
// across chunk boundaries is required because each chunk always starts a
// fresh generated file.
func ComposeChunks(filename string, sources []string, sourcesContent []string, chunks ...Chunk) RawSourceMap {
	var mappings strings.Builder
	for i, c := range chunks {
		if i > 0 {
			mappings.WriteByte(';')
		}
		mappings.Write(c.Buffer)
	}
	return RawSourceMap{
		Version:        3,
		Sources:        sources,
		SourcesContent: sourcesContent,
		Names:          []string{},
		Mappings:       mappings.String(),
		File:           filename,
	}
}
