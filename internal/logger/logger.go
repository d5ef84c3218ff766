package logger

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// Default max log file size 10MB
	DefaultMaxSize = 10 * 1024 * 1024
	// Default number of log files to retain
	DefaultMaxBackups = 3
)

// Logger manages log operations
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	filePath    string
	maxSize     int64
	maxBackups  int
	currentSize int64
	prefix      string
}

// LogManager handles global log management
type LogManager struct {
	dataDir      string
	appLogger    *Logger
	accessLogger *Logger
}

var (
	// Global log manager instance
	manager *LogManager
	once    sync.Once
)

// NewLogger creates a new logger
func NewLogger(filePath string, prefix string) (*Logger, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &Logger{
		filePath:   filePath,
		maxSize:    DefaultMaxSize,
		maxBackups: DefaultMaxBackups,
		prefix:     prefix,
	}

	if err := l.openFile(); err != nil {
		return nil, err
	}

	return l, nil
}

// openFile opens or creates a log file
func (l *Logger) openFile() error {
	file, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to get file info: %w", err)
	}

	l.file = file
	l.currentSize = info.Size()

	return nil
}

// rotate rotates log files
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
	}

	// Delete oldest backup
	oldestBackup := fmt.Sprintf("%s.%d", l.filePath, l.maxBackups)
	os.Remove(oldestBackup)

	// Move existing backups
	for i := l.maxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", l.filePath, i)
		newPath := fmt.Sprintf("%s.%d", l.filePath, i+1)
		os.Rename(oldPath, newPath)
	}

	// Move current log to .1
	os.Rename(l.filePath, l.filePath+".1")

	// Create new file
	return l.openFile()
}

// Write implements the io.Writer interface
func (l *Logger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Check if rotation is needed
	if l.currentSize+int64(len(p)) > l.maxSize {
		if err := l.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = l.file.Write(p)
	l.currentSize += int64(n)
	return
}

// Printf outputs formatted log message
func (l *Logger) Printf(format string, v ...interface{}) {
	timestamp := time.Now().Format("2006/01/02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	line := fmt.Sprintf("%s %s%s\n", timestamp, l.prefix, msg)

	// Write to file
	l.Write([]byte(line))

	// Also output to console
	fmt.Print(line)
}

// Println outputs a log line
func (l *Logger) Println(v ...interface{}) {
	timestamp := time.Now().Format("2006/01/02 15:04:05")
	msg := fmt.Sprint(v...)
	line := fmt.Sprintf("%s %s%s\n", timestamp, l.prefix, msg)

	// Write to file
	l.Write([]byte(line))

	// Also output to console
	fmt.Print(line)
}

// writeQuiet writes a timestamped line to the file only. Access lines are
// high-volume and stay out of the console.
func (l *Logger) writeQuiet(format string, v ...interface{}) {
	timestamp := time.Now().Format("2006/01/02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	l.Write([]byte(fmt.Sprintf("%s %s\n", timestamp, msg)))
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// ReadLastLines reads the last n lines from the log
func (l *Logger) ReadLastLines(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Sync file
	if l.file != nil {
		l.file.Sync()
	}

	// Read file
	file, err := os.Open(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	// Use ring buffer to store last n lines
	lines := make([]string, 0, n)
	scanner := bufio.NewScanner(file)

	// Increase scanner buffer size to handle long lines
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}

	return lines, nil
}

// GetFilePath returns the log file path
func (l *Logger) GetFilePath() string {
	return l.filePath
}

// InitLogManager initializes the global log manager
func InitLogManager(dataDir string) error {
	var initErr error
	once.Do(func() {
		logsDir := filepath.Join(dataDir, "logs")

		appLogger, err := NewLogger(filepath.Join(logsDir, "subhub.log"), "[SUBHUB] ")
		if err != nil {
			initErr = fmt.Errorf("failed to initialize app logger: %w", err)
			return
		}

		accessLogger, err := NewLogger(filepath.Join(logsDir, "access.log"), "")
		if err != nil {
			initErr = fmt.Errorf("failed to initialize access logger: %w", err)
			return
		}

		manager = &LogManager{
			dataDir:      dataDir,
			appLogger:    appLogger,
			accessLogger: accessLogger,
		}
	})

	return initErr
}

// GetLogManager returns the global log manager
func GetLogManager() *LogManager {
	return manager
}

// AppLogger returns the app logger
func (m *LogManager) AppLogger() *Logger {
	return m.appLogger
}

// AccessLogger returns the subscription access logger
func (m *LogManager) AccessLogger() *Logger {
	return m.accessLogger
}

// Printf app log shortcut method
func Printf(format string, v ...interface{}) {
	if manager != nil && manager.appLogger != nil {
		manager.appLogger.Printf(format, v...)
	} else {
		log.Printf(format, v...)
	}
}

// Println app log shortcut method
func Println(v ...interface{}) {
	if manager != nil && manager.appLogger != nil {
		manager.appLogger.Println(v...)
	} else {
		log.Println(v...)
	}
}

// Access records a subscription access line in the access log.
func Access(format string, v ...interface{}) {
	if manager != nil && manager.accessLogger != nil {
		manager.accessLogger.writeQuiet(format, v...)
	}
}

// ReadAppLogs reads app logs
func ReadAppLogs(lines int) ([]string, error) {
	if manager == nil || manager.appLogger == nil {
		return []string{}, nil
	}
	return manager.appLogger.ReadLastLines(lines)
}

// ReadAccessLogs reads subscription access logs
func ReadAccessLogs(lines int) ([]string, error) {
	if manager == nil || manager.accessLogger == nil {
		return []string{}, nil
	}
	return manager.accessLogger.ReadLastLines(lines)
}
