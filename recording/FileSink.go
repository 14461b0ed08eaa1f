package recording

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// File layout: an 8-byte header (magic + format version), then one
// frame per record. Each frame is
//
//	[1]  compression tag
//	[4]  uncompressed payload length, big endian
//	[4]  stored payload length, big endian
//	[n]  payload (CBOR record, possibly LZ4 block compressed)
//
// These values are format constants; changing them breaks existing
// recordings.
const (
	fileMagic   = "GYMREC\x00"
	fileVersion = uint8(1)

	compressionNone = uint8(0)
	compressionLZ4  = uint8(1)
)

// FileSink persists a recording to a file. Records are CBOR encoded
// and LZ4 compressed per record, falling back to storing the raw bytes
// when compression does not pay off, as with already-compressed JPEG
// frames.
type FileSink struct {
	file *os.File
	w    *bufio.Writer
}

// NewFileSink creates (or truncates) the file at path and writes the
// recording header.
func NewFileSink(path string) (*FileSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("newFileSink: could not create %q: %v", path,
			err)
	}

	w := bufio.NewWriter(file)
	if _, err := w.WriteString(fileMagic); err != nil {
		file.Close()
		return nil, fmt.Errorf("newFileSink: could not write header: %v", err)
	}
	if err := w.WriteByte(fileVersion); err != nil {
		file.Close()
		return nil, fmt.Errorf("newFileSink: could not write header: %v", err)
	}

	return &FileSink{file: file, w: w}, nil
}

// Write appends one record to the file.
func (s *FileSink) Write(rec *Record) error {
	payload, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("write: %v", err)
	}

	tag := compressionLZ4
	stored := compressLZ4(payload)
	if stored == nil {
		tag = compressionNone
		stored = payload
	}

	var header [9]byte
	header[0] = tag
	binary.BigEndian.PutUint32(header[1:5], uint32(len(payload)))
	binary.BigEndian.PutUint32(header[5:9], uint32(len(stored)))

	if _, err := s.w.Write(header[:]); err != nil {
		return fmt.Errorf("write: could not write frame header: %v", err)
	}
	if _, err := s.w.Write(stored); err != nil {
		return fmt.Errorf("write: could not write frame payload: %v", err)
	}
	return nil
}

// Close flushes buffered frames and closes the file.
func (s *FileSink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("close: could not flush: %v", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close: could not close file: %v", err)
	}
	return nil
}

// compressLZ4 block-compresses data, returning nil when the data is
// incompressible or compression would not shrink it.
func compressLZ4(data []byte) []byte {
	bound := lz4.CompressBlockBound(len(data))
	dst := make([]byte, bound)

	written, err := lz4.CompressBlock(data, dst, nil)
	if err != nil || written == 0 || written >= len(data) {
		return nil
	}
	return dst[:written]
}

// ReadFile decodes every record from a recording file, in order.
func ReadFile(path string) ([]*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readFile: could not open %q: %v", path, err)
	}
	defer file.Close()

	r := bufio.NewReader(file)

	header := make([]byte, len(fileMagic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("readFile: could not read header: %v", err)
	}
	if string(header[:len(fileMagic)]) != fileMagic {
		return nil, fmt.Errorf("readFile: %q is not a recording file", path)
	}
	if version := header[len(fileMagic)]; version != fileVersion {
		return nil, fmt.Errorf("readFile: unsupported format version %d",
			version)
	}

	var records []*Record
	for {
		var frame [9]byte
		if _, err := io.ReadFull(r, frame[:]); err == io.EOF {
			return records, nil
		} else if err != nil {
			return nil, fmt.Errorf("readFile: could not read frame header: %v",
				err)
		}

		tag := frame[0]
		uncompressed := binary.BigEndian.Uint32(frame[1:5])
		storedLen := binary.BigEndian.Uint32(frame[5:9])

		stored := make([]byte, storedLen)
		if _, err := io.ReadFull(r, stored); err != nil {
			return nil, fmt.Errorf("readFile: could not read frame "+
				"payload: %v", err)
		}

		payload := stored
		switch tag {
		case compressionNone:
		case compressionLZ4:
			payload = make([]byte, uncompressed)
			read, err := lz4.UncompressBlock(stored, payload)
			if err != nil {
				return nil, fmt.Errorf("readFile: could not decompress "+
					"frame: %v", err)
			}
			if read != int(uncompressed) {
				return nil, fmt.Errorf("readFile: got %d bytes, expected %d",
					read, uncompressed)
			}
		default:
			return nil, fmt.Errorf("readFile: unknown compression tag %d", tag)
		}

		rec, err := unmarshalRecord(payload)
		if err != nil {
			return nil, fmt.Errorf("readFile: %v", err)
		}
		records = append(records, rec)
	}
}
