package storage

import (
	"bufio"
	"cognitive-mapview/internal/domain"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrInvalidMagic = errors.New("invalid magic")

// MaxFrameLen - защита от мусорной длины кадра в битом файле.
const MaxFrameLen = 16 << 20

func Load(path string) (*domain.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadRecording(bufio.NewReader(f))
}

// ReadRecording разбирает файл .cdev.
func ReadRecording(r io.Reader) (*domain.Recording, error) {
	// 1. Читаем заголовок целиком
	var header RecordingFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("%q: %w", header.Magic[:], ErrInvalidMagic)
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.FrameCount < 0 {
		return nil, fmt.Errorf("negative frame count: %d", header.FrameCount)
	}

	rec := &domain.Recording{
		Width:     int(header.Width),
		Height:    int(header.Height),
		Timestamp: header.Timestamp,
		Frames:    make([][]byte, 0, min(int(header.FrameCount), 4096)),
	}

	// 2. Читаем кадры
	for i := 0; i < int(header.FrameCount); i++ {
		var fh FrameHeader
		if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
			return nil, fmt.Errorf("frame %d header: %w", i, err)
		}
		if fh.Len > MaxFrameLen {
			return nil, fmt.Errorf("frame %d too long: %d", i, fh.Len)
		}

		frame := make([]byte, fh.Len)
		if _, err := io.ReadFull(r, frame); err != nil {
			return nil, fmt.Errorf("frame %d body: %w", i, err)
		}
		rec.Frames = append(rec.Frames, frame)
	}

	return rec, nil
}
