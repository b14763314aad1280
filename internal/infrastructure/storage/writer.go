package storage

import (
	"bufio"
	"cognitive-mapview/internal/domain"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

const (
	MagicHeader string = `CDEV` // 4 байта
	Version1    uint32 = 1
)

// RecordingFileHeader - точное представление заголовка файла .cdev в памяти.
// Только массивы и числа, поэтому binary.Write пишет его целиком.
type RecordingFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Width      int16   // 2 байта
	Height     int16   // 2 байта
	Timestamp  int64   // 8 байт
	FrameCount int32   // 4 байта
}

// FrameHeader - заголовок каждого кадра.
type FrameHeader struct {
	Len uint32
}

type Recorder struct {
	SaveDir string
}

func NewRecorder(dir string) *Recorder {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &Recorder{SaveDir: dir}
}

// Save пишет запись в SaveDir и возвращает путь к файлу.
func (s *Recorder) Save(rec *domain.Recording) (string, error) {
	filename := fmt.Sprintf("session_%dx%d_%d.cdev", rec.Width, rec.Height, rec.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := WriteRecording(bw, rec); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteRecording сериализует запись в w.
func WriteRecording(w io.Writer, rec *domain.Recording) error {
	if rec.Width > math.MaxInt16 || rec.Height > math.MaxInt16 || rec.Width <= 0 || rec.Height <= 0 {
		return fmt.Errorf("grid size %dx%d does not fit the header", rec.Width, rec.Height)
	}

	// 1. Глобальный заголовок
	header := RecordingFileHeader{
		Version:    Version1,
		Width:      int16(rec.Width),
		Height:     int16(rec.Height),
		Timestamp:  rec.Timestamp,
		FrameCount: int32(len(rec.Frames)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Кадры
	for i, frame := range rec.Frames {
		fh := FrameHeader{Len: uint32(len(frame))}
		if err := binary.Write(w, binary.LittleEndian, &fh); err != nil {
			return fmt.Errorf("frame %d header: %w", i, err)
		}
		if _, err := w.Write(frame); err != nil {
			return fmt.Errorf("frame %d body: %w", i, err)
		}
	}

	return nil
}
