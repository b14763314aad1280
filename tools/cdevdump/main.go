package main

import (
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/internal/engine"
	"cognitive-mapview/internal/infrastructure/storage"
	"cognitive-mapview/internal/render"
	"cognitive-mapview/pkg/api"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	rec, err := storage.Load(os.Args[2])
	if err != nil {
		fmt.Printf("Failed to load recording: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "info":
		fmt.Printf("Size:    %dx%d\n", rec.Width, rec.Height)
		fmt.Printf("Started: %s\n", time.Unix(rec.Timestamp, 0).Format(time.RFC3339))
		fmt.Printf("Frames:  %d\n", len(rec.Frames))
	case "frames":
		only := domain.EventUnknown
		if len(os.Args) > 3 {
			only = domain.ParseEvent(os.Args[3])
			if only == domain.EventUnknown {
				fmt.Printf("Unknown event type: %s\n", os.Args[3])
				return
			}
		}
		for i, frame := range rec.Frames {
			counts, malformed := summarize(frame)
			if only != domain.EventUnknown && counts[only.String()] == 0 {
				continue
			}
			fmt.Printf("%5d  %6d bytes  %s\n", i, len(frame), formatCounts(counts, malformed))
		}
	case "map":
		upTo := len(rec.Frames)
		if len(os.Args) > 3 {
			n, err := strconv.Atoi(os.Args[3])
			if err != nil || n < 0 {
				fmt.Printf("Invalid frame number: %s\n", os.Args[3])
				return
			}
			upTo = min(n+1, upTo)
		}
		fmt.Println(render.ASCII(playTo(rec, upTo), false))
	default:
		printHelp()
	}
}

// summarize считает события кадра по типам.
func summarize(frame []byte) (map[string]int, bool) {
	events, err := api.DecodeFrame(frame)
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Type.String()]++
		if ev.Payload != nil {
			ev.Payload.Release()
		}
	}
	return counts, err != nil
}

// formatCounts: "GLYPH=12 STATUS=1 ..."
func formatCounts(counts map[string]int, malformed bool) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	if malformed {
		parts = append(parts, "MALFORMED")
	}
	return strings.Join(parts, " ")
}

func playTo(rec *domain.Recording, n int) api.MapView {
	cfg := engine.NewConfig()
	cfg.Width, cfg.Height = rec.Width, rec.Height
	session := engine.NewSession(cfg, nil)
	for _, frame := range rec.Frames[:n] {
		events, _ := api.DecodeFrame(frame)
		session.Queue.Push(events...)
		session.Step()
	}
	return session.Snapshot()
}

func printHelp() {
	fmt.Println(`Recording Utility - просмотр записей фида (.cdev)
Commands:
  info <file>            - размер карты, время начала и число кадров
  frames <file> [type]   - события каждого кадра по типам (только кадры с type)
  map <file> [frame]     - карта после кадра (по умолчанию последнего)`)
}
