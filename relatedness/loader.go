package relatedness

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Format selects how a model file is decoded.
type Format string

const (
	// FormatText is the word2vec text format: a "count dim" header, then one word and its values per line.
	FormatText Format = "text"
	// FormatBinary is the word2vec binary format: a "count dim" header, then word, space and little-endian float32s.
	FormatBinary Format = "binary"
	// FormatGloVe is the GloVe text format: the text layout without a header line.
	FormatGloVe Format = "glove"
)

// ErrUnknownFormat is returned for a format name outside text, binary and glove.
var ErrUnknownFormat = errors.New("unknown model format")

// Formats lists the accepted format names.
func Formats() []Format {
	return []Format{FormatText, FormatBinary, FormatGloVe}
}

// ParseFormat validates a configured format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatBinary:
		return FormatBinary, nil
	case FormatGloVe:
		return FormatGloVe, nil
	}
	return "", fmt.Errorf("%w %q (expected one of text, binary, glove)", ErrUnknownFormat, s)
}

// ModelNameFromPath derives the model identifier: the file base name up to its first dot.
func ModelNameFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// LoadModel reads a whole model file into memory.
func LoadModel(path string, format Format) (*VectorModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	m, err := ReadModel(f, ModelNameFromPath(path), format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// ReadModel decodes a model from r.
func ReadModel(r io.Reader, name string, format Format) (*VectorModel, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	switch format {
	case FormatText:
		return readTextModel(br, name, true)
	case FormatGloVe:
		return readTextModel(br, name, false)
	case FormatBinary:
		return readBinaryModel(br, name)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

func readHeader(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("malformed header %q", strings.TrimSpace(line))
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed header count: %w", err)
	}
	dim, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed header dimension: %w", err)
	}
	if count < 0 || dim <= 0 {
		return 0, 0, fmt.Errorf("invalid header %d x %d", count, dim)
	}
	return count, dim, nil
}

func readTextModel(r *bufio.Reader, name string, hasHeader bool) (*VectorModel, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var (
		m        *VectorModel
		expected = -1
		lineNo   int
	)
	if hasHeader {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("scan header: %w", err)
			}
			return nil, errors.New("empty model file")
		}
		lineNo++
		count, dim, err := readHeader(scanner.Text())
		if err != nil {
			return nil, err
		}
		expected = count
		m = NewVectorModel(name, dim)
	}
	rows := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line == "" {
			continue
		}
		// Fields are separated by a single ASCII space; other whitespace belongs to the word.
		fields := strings.Split(line, " ")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: no vector values", lineNo)
		}
		if m == nil {
			m = NewVectorModel(name, len(fields)-1)
		}
		vec := make([]float64, len(fields)-1)
		for i, val := range fields[1:] {
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vec[i] = v
		}
		if err := m.Add(fields[0], vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan model: %w", err)
	}
	if m == nil {
		return nil, errors.New("empty model file")
	}
	if expected >= 0 && rows < expected {
		return nil, fmt.Errorf("header declares %d vectors, found %d", expected, rows)
	}
	return m, nil
}

func readBinaryModel(r *bufio.Reader, name string) (*VectorModel, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	count, dim, err := readHeader(header)
	if err != nil {
		return nil, err
	}
	m := NewVectorModel(name, dim)
	buf := make([]byte, dim*4)
	for i := 0; i < count; i++ {
		word, err := readBinaryWord(r)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("vector %d (%q): %w", i, word, err)
		}
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4 : (j+1)*4])))
		}
		if err := m.Add(word, vec); err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
	}
	return m, nil
}

// readBinaryWord reads up to the space that separates a word from its values,
// skipping the newline some writers put after each vector.
func readBinaryWord(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == ' ' {
			if sb.Len() == 0 {
				continue
			}
			return sb.String(), nil
		}
		if b == '\n' && sb.Len() == 0 {
			continue
		}
		sb.WriteByte(b)
	}
}
