package global

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
)

const (
	mb = 1000000

	DEFAULT_MAX_LOG_SIZE = 2.5 * mb
	DEFAULT_MAX_LOGS     = 3
)

// RollingFileWriter appends to <dir>/<name>.log. Once that file reaches MaxSize it is archived
// as <name>-1.log, older archives shift up by one and anything past MaxLogs files is removed.
type RollingFileWriter struct {
	FileDirectory string
	FileName      string
	MaxSize       int64
	MaxLogs       int

	mu sync.Mutex
}

func NewRollingFileWriter(fileDir string, fileName string) (*RollingFileWriter, error) {
	absFileDir, err := filepath.Abs(fileDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(absFileDir, 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	return &RollingFileWriter{
		FileDirectory: absFileDir,
		FileName:      fileName,
		MaxSize:       DEFAULT_MAX_LOG_SIZE,
		MaxLogs:       DEFAULT_MAX_LOGS,
	}, nil
}

func (w *RollingFileWriter) MainLogPath() string {
	return filepath.Join(w.FileDirectory, fmt.Sprintf("%s.log", w.FileName))
}

func (w *RollingFileWriter) indexedLog(fileName string, index int64) string {
	return filepath.Join(w.FileDirectory, fmt.Sprintf("%s-%d.log", fileName, index))
}

// archivedLogs returns the full paths of every file matching pattern in the log directory
func (w *RollingFileWriter) archivedLogs(pattern string) ([]string, error) {
	logMatches, err := fs.Glob(os.DirFS(w.FileDirectory), pattern)
	if err != nil {
		return nil, err
	}

	return lo.Map(logMatches, func(log string, _ int) string {
		return filepath.Join(w.FileDirectory, log)
	}), nil
}

func (w *RollingFileWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	stats, err := os.Stat(w.MainLogPath())
	if err == nil && stats.Size()+int64(len(b)) > w.MaxSize && stats.Size() > 0 {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	mainLogFile, err := os.OpenFile(w.MainLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}
	defer mainLogFile.Close()

	return mainLogFile.Write(b)
}

// rotate shifts every archive up one index, archives the main log as index 1
// and drops the oldest archives so at most MaxLogs files remain, counting the new main log
func (w *RollingFileWriter) rotate() error {
	logMatches, err := w.archivedLogs(w.FileName + "-*.log")
	if err != nil {
		return err
	}

	indexed := make(map[int64]string, len(logMatches))
	for _, log := range logMatches {
		index, err := logIndex(w.FileName, log)
		if err != nil || index < 1 {
			// not one of ours or a mangled name, get rid of it
			if err := os.Remove(log); err != nil {
				return err
			}
			continue
		}

		indexed[index] = log
	}

	// highest first so renames never overwrite a file that still has to move
	indices := lo.Keys(indexed)
	slices.Sort(indices)
	slices.Reverse(indices)

	for _, index := range indices {
		if int(index)+1 >= w.MaxLogs {
			if err := os.Remove(indexed[index]); err != nil {
				return err
			}
			continue
		}

		if err := os.Rename(indexed[index], w.indexedLog(w.FileName, index+1)); err != nil {
			return err
		}
	}

	if w.MaxLogs <= 1 {
		return os.Remove(w.MainLogPath())
	}

	return os.Rename(w.MainLogPath(), w.indexedLog(w.FileName, 1))
}

func logIndex(baseFileName string, filePath string) (int64, error) {
	fileName, _ := strings.CutSuffix(filepath.Base(filePath), ".log")
	indexStr, ok := strings.CutPrefix(fileName, baseFileName+"-")
	if !ok {
		return 0, fmt.Errorf("%s is not an archived %s log", filePath, baseFileName)
	}

	return strconv.ParseInt(indexStr, 10, 32)
}
