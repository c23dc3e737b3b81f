package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/polyvox/polyvox/sapi"
)

const headerSize = 44

var (
	// ErrFinalized is returned when writing to a writer whose header has
	// already been patched with final sizes.
	ErrFinalized = errors.New("wav: writer already finalized")

	// ErrTooLarge is returned when the data chunk would overflow the
	// 32-bit size fields of the RIFF container.
	ErrTooLarge = errors.New("wav: data exceeds RIFF size limit")
)

// Writer streams PCM bytes into a WAVE container. The header is written
// with placeholder sizes up front and patched on Finalize, so the
// destination must support seeking.
type Writer struct {
	dst       io.WriteSeeker
	format    sapi.WaveFormat
	dataLen   uint32
	finalized bool
}

// NewWriter writes the provisional header and returns a Writer ready to
// accept sample data.
func NewWriter(dst io.WriteSeeker, format sapi.WaveFormat) (*Writer, error) {
	w := &Writer{dst: dst, format: format}
	if err := w.writeHeader(); err != nil {
		return nil, fmt.Errorf("writing wav header: %w", err)
	}
	return w, nil
}

// Write appends PCM bytes to the data chunk.
func (w *Writer) Write(p []byte) (int, error) {
	if w.finalized {
		return 0, ErrFinalized
	}
	if uint64(w.dataLen)+uint64(len(p)) > uint64(^uint32(0))-headerSize {
		return 0, ErrTooLarge
	}
	n, err := w.dst.Write(p)
	w.dataLen += uint32(n)
	return n, err
}

// Finalize patches the RIFF and data chunk sizes. The Writer rejects
// further writes afterwards.
func (w *Writer) Finalize() error {
	if w.finalized {
		return ErrFinalized
	}
	w.finalized = true

	if _, err := w.dst.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to riff size: %w", err)
	}
	if err := binary.Write(w.dst, binary.LittleEndian, uint32(headerSize-8)+w.dataLen); err != nil {
		return err
	}
	if _, err := w.dst.Seek(40, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to data size: %w", err)
	}
	if err := binary.Write(w.dst, binary.LittleEndian, w.dataLen); err != nil {
		return err
	}
	_, err := w.dst.Seek(0, io.SeekEnd)
	return err
}

// DataLen reports the number of PCM bytes written so far.
func (w *Writer) DataLen() int {
	return int(w.dataLen)
}

func (w *Writer) writeHeader() error {
	var hdr [headerSize]byte
	copy(hdr[0:4], "RIFF")
	// Sizes at offsets 4 and 40 stay zero until Finalize.
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], w.format.FormatTag)
	binary.LittleEndian.PutUint16(hdr[22:24], w.format.Channels)
	binary.LittleEndian.PutUint32(hdr[24:28], w.format.SamplesPerSec)
	binary.LittleEndian.PutUint32(hdr[28:32], w.format.AvgBytesPerSec)
	binary.LittleEndian.PutUint16(hdr[32:34], w.format.BlockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], w.format.BitsPerSample)
	copy(hdr[36:40], "data")
	_, err := w.dst.Write(hdr[:])
	return err
}

// Encode writes a complete WAVE file for already-collected PCM bytes. It
// needs no seeking because the sizes are known up front.
func Encode(dst io.Writer, format sapi.WaveFormat, data []byte) error {
	if uint64(len(data)) > uint64(^uint32(0))-headerSize {
		return ErrTooLarge
	}
	var hdr [headerSize]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(headerSize-8+len(data)))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], format.FormatTag)
	binary.LittleEndian.PutUint16(hdr[22:24], format.Channels)
	binary.LittleEndian.PutUint32(hdr[24:28], format.SamplesPerSec)
	binary.LittleEndian.PutUint32(hdr[28:32], format.AvgBytesPerSec)
	binary.LittleEndian.PutUint16(hdr[32:34], format.BlockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], format.BitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(len(data)))
	if _, err := dst.Write(hdr[:]); err != nil {
		return err
	}
	_, err := dst.Write(data)
	return err
}
