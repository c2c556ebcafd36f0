package output

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	fileutil "github.com/zan8in/pins/file"

	"tcpscan/pkg/log"
)

// Probe statuses as they appear in result lines.
const (
	StatusOpen         = "open"
	StatusClosed       = "closed"
	StatusPortExcluded = "port-excluded"
	StatusHostExcluded = "host-excluded"
)

// Writer emits one tab-separated result line per reportable probe outcome
// and optionally mirrors each line as a comma-separated row into a CSV
// file. Rows are flushed as they are written so a killed process loses at
// most the in-flight line.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	csv   *os.File
	color bool
}

// SetColor renders the status field of text lines through the palette. The
// CSV mirror always stays plain.
func (w *Writer) SetColor(enabled bool) {
	w.mu.Lock()
	w.color = enabled
	w.mu.Unlock()
}

// NewWriter writes result lines to out and, when csvPath is non-empty,
// mirrors them into a freshly truncated CSV file.
func NewWriter(out io.Writer, csvPath string) (*Writer, error) {
	w := &Writer{out: out}
	if csvPath != "" {
		f, err := os.OpenFile(csvPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			return nil, err
		}
		w.csv = f
	}
	return w, nil
}

// Result emits one probe outcome. The hostname field is appended only when
// non-empty (reverse-DNS resolved names).
func (w *Writer) Result(host string, port int, status, hostname string) {
	fields := []string{host, strconv.Itoa(port), status}
	if hostname != "" {
		fields = append(fields, hostname)
	}
	w.emit(fields)
}

// HostExcluded emits the host-level exclusion record; the port column
// carries "n/a" since no port was ever considered.
func (w *Writer) HostExcluded(host string) {
	w.emit([]string{host, "n/a", StatusHostExcluded})
}

func (w *Writer) emit(fields []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	line := strings.Join(fields, "\t")
	if w.color {
		colored := append([]string(nil), fields...)
		colored[2] = log.LogColor.GetColor(fields[2], fields[2])
		line = strings.Join(colored, "\t")
	}
	io.WriteString(w.out, line+"\n")

	if w.csv != nil {
		row := strings.Join(fields, ",") + "\n"
		wbuf := bufio.NewWriterSize(w.csv, len(row))
		wbuf.WriteString(row)
		wbuf.Flush()
	}
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.csv != nil {
		return w.csv.Close()
	}
	return nil
}

// ListenLog is the CSV sink of the passive listener. Unlike the scan CSV it
// appends across runs and carries a header row written once, when the file
// is first created.
type ListenLog struct {
	mu sync.Mutex
	f  *os.File
}

func NewListenLog(path string) (*ListenLog, error) {
	if path == "" {
		return &ListenLog{}, nil
	}
	writeHeader := !fileutil.FileExists(path)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	l := &ListenLog{f: f}
	if writeHeader {
		l.write("Timestamp,Local,Remote\n")
	}
	return l, nil
}

// Connection records one inbound connection.
func (l *ListenLog) Connection(timestamp, local, remote string) {
	if l.f == nil {
		return
	}
	l.write(timestamp + "," + local + "," + remote + "\n")
}

func (l *ListenLog) write(row string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	wbuf := bufio.NewWriterSize(l.f, len(row))
	wbuf.WriteString(row)
	wbuf.Flush()
}

func (l *ListenLog) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
