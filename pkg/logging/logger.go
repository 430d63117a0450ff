package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/MdSadiqMd/udp-sender/pkg/utils"
)

var (
	mu     sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var color = true

// SetOutput redirects all log lines. Passing nil restores the process streams.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut
}

func SetColor(enabled bool) {
	mu.Lock()
	color = enabled
	mu.Unlock()
}

// Current time formatted as ISO 8601 with milliseconds
func Timestamp() string {
	return time.Now().Format("2006-01-02T15:04:05.000")
}

func write(toErr bool, clr, tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	w := stdout
	if toErr {
		w = stderr
	}
	start, end := clr, utils.NC
	if !color {
		start, end = "", ""
	}
	fmt.Fprintf(w, "%s[%s][%s]%s %s\n", start, Timestamp(), tag, end, fmt.Sprintf(format, args...))
}

func LogInfo(format string, args ...any) {
	write(false, utils.BLUE, "INFO", format, args...)
}

func LogSuccess(format string, args ...any) {
	write(false, utils.GREEN, "✓", format, args...)
}

func LogWarning(format string, args ...any) {
	write(false, utils.YELLOW, "⚠", format, args...)
}

func LogError(format string, args ...any) {
	write(true, utils.RED, "✗", format, args...)
}

func LogUDP(format string, args ...any) {
	write(false, utils.CYAN, "UDP", format, args...)
}

func LogConfig(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if color {
		fmt.Fprintf(stdout, "%s[CONFIG]%s %s\n", utils.MAGENTA, utils.NC, fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(stdout, "[CONFIG] %s\n", fmt.Sprintf(format, args...))
}
