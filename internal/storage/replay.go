package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/api"
)

// Реплей - это зерно плюс журнал команд: при детерминированном ядре
// этого достаточно, чтобы проиграть партию заново ход в ход.
const (
	replayMagic   = "DCRP"
	replayVersion = 1
)

// ReplayHeader - первая строка файла реплея.
type ReplayHeader struct {
	Magic     string `json:"magic"`
	Version   int    `json:"version"`
	Seed      string `json:"seed"`
	Level     int    `json:"level"`
	Timestamp int64  `json:"timestamp"`
}

// ReplayWriter пишет журнал команд по одной JSON-строке на команду.
type ReplayWriter struct {
	f *os.File
	w *bufio.Writer
}

// NewReplayWriter создает файл реплея и пишет заголовок.
func NewReplayWriter(path, seed string, level int) (*ReplayWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating replay file: %w", err)
	}
	rw := &ReplayWriter{f: f, w: bufio.NewWriter(f)}
	header := ReplayHeader{
		Magic:     replayMagic,
		Version:   replayVersion,
		Seed:      seed,
		Level:     level,
		Timestamp: time.Now().Unix(),
	}
	if err := rw.writeLine(header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return rw, nil
}

// Append дописывает команду в журнал.
func (rw *ReplayWriter) Append(cmd api.ClientCommand) error {
	return rw.writeLine(cmd)
}

func (rw *ReplayWriter) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := rw.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing replay line: %w", err)
	}
	return nil
}

// Close досылает буфер и закрывает файл.
func (rw *ReplayWriter) Close() error {
	if err := rw.w.Flush(); err != nil {
		return err
	}
	return rw.f.Close()
}

// LoadReplay читает заголовок и все команды реплея.
func LoadReplay(path string) (ReplayHeader, []api.ClientCommand, error) {
	var header ReplayHeader

	f, err := os.Open(path)
	if err != nil {
		return header, nil, fmt.Errorf("opening replay file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return header, nil, fmt.Errorf("replay file is empty")
	}
	if err := json.Unmarshal(sc.Bytes(), &header); err != nil {
		return header, nil, fmt.Errorf("parsing replay header: %w", err)
	}
	if header.Magic != replayMagic {
		return header, nil, fmt.Errorf("not a replay file")
	}
	if header.Version != replayVersion {
		return header, nil, fmt.Errorf("unsupported replay version %d", header.Version)
	}

	var cmds []api.ClientCommand
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var cmd api.ClientCommand
		if err := json.Unmarshal(sc.Bytes(), &cmd); err != nil {
			return header, nil, fmt.Errorf("parsing replay command %d: %w", len(cmds)+1, err)
		}
		cmds = append(cmds, cmd)
	}
	return header, cmds, sc.Err()
}
