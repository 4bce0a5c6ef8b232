package persistence

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

// Constants for the snapshot log binary format.
const (
	// MagicByte marks the start of a valid frame.
	MagicByte = 0xA5

	// HeaderSize is the fixed size of the frame metadata:
	// 1 byte (Magic) + 1 byte (OpCode) + 4 bytes (Length) + 4 bytes (CRC32) = 10 bytes.
	HeaderSize = 10

	// OpCodeSnapshot marks a frame whose payload is a full path snapshot.
	OpCodeSnapshot = 0x01
)

var (
	// ErrInvalidMagic indicates the stream lost synchronization or is not a snapshot log.
	ErrInvalidMagic = errors.New("invalid magic byte")
	// ErrChecksumMismatch indicates corruption within the frame payload.
	ErrChecksumMismatch = errors.New("crc32 checksum mismatch")
	// ErrIncompleteFrame indicates the file ended abruptly (e.g., power loss during write).
	ErrIncompleteFrame = errors.New("incomplete frame")
)

// Frame is a decoded log record.
type Frame struct {
	OpCode  byte
	Payload []byte
}

// FrameWriter writes binary frames to an io.Writer.
type FrameWriter struct {
	w io.Writer
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame encodes one record.
// Frame Format: [Magic(1)][OpCode(1)][Length(4)][CRC(4)][Payload(N)]
func (fw *FrameWriter) WriteFrame(op byte, payload []byte) error {
	buf := make([]byte, HeaderSize+len(payload))

	buf[0] = MagicByte
	buf[1] = op
	binary.LittleEndian.PutUint32(buf[2:6], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[6:10], crc32.ChecksumIEEE(payload))
	copy(buf[HeaderSize:], payload)

	// One Write call per frame so a buffered writer never splits the header
	// from its payload across flushes.
	_, err := fw.w.Write(buf)
	return err
}

// ReadFrame reads the next frame and validates its magic byte and checksum.
// It returns the frame, the number of bytes consumed and an error. io.EOF is
// returned only at a clean frame boundary.
func ReadFrame(r io.Reader) (Frame, int, error) {
	header := make([]byte, HeaderSize)

	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF {
			return Frame{}, 0, io.EOF
		}
		return Frame{}, 0, ErrIncompleteFrame
	}

	if header[0] != MagicByte {
		return Frame{}, HeaderSize, ErrInvalidMagic
	}

	op := header[1]
	length := binary.LittleEndian.Uint32(header[2:6])
	expectedCRC := binary.LittleEndian.Uint32(header[6:10])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, HeaderSize, ErrIncompleteFrame
	}

	if crc32.ChecksumIEEE(payload) != expectedCRC {
		return Frame{}, HeaderSize + int(length), ErrChecksumMismatch
	}

	return Frame{OpCode: op, Payload: payload}, HeaderSize + int(length), nil
}
