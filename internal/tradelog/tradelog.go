// Package tradelog appends advices and orders as JSON lines to one file per day.
package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	dir = "logs"
	now = time.Now
)

type Entry struct {
	Time    string  `json:"time"`
	CycleID string  `json:"cycle_id"`
	Symbol  string  `json:"symbol"`
	Side    string  `json:"side"`
	Qty     string  `json:"qty"`
	Price   float64 `json:"price,omitempty"`
	OrderID string  `json:"order_id,omitempty"`
	Status  string  `json:"status,omitempty"`
	Error   string  `json:"error,omitempty"`
	PostID  int64   `json:"post_id"`
}

type AdviceEntry struct {
	Time     string `json:"time"`
	CycleID  string `json:"cycle_id"`
	Symbol   string `json:"symbol"`
	Action   string `json:"action"`
	PostID   int64  `json:"post_id"`
	PostText string `json:"post_text"`
}

// SetDir changes the directory log files are written to.
func SetDir(d string) {
	mu.Lock()
	defer mu.Unlock()
	dir = d
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(dir, "orders", t.UTC().Format("2006-01-02")+".txt")
}

func advicesFilepath(t time.Time) string {
	return filepath.Join(dir, "advices", t.UTC().Format("2006-01-02")+".txt")
}

func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	t := now()
	e.Time = t.UTC().Format(time.RFC3339)
	return appendLine(dailyFilepath(t), e)
}

func AppendAdvice(e AdviceEntry) error {
	mu.Lock()
	defer mu.Unlock()
	t := now()
	e.Time = t.UTC().Format(time.RFC3339)
	return appendLine(advicesFilepath(t), e)
}

func appendLine(p string, v any) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips .txt files last modified more than retentionDays ago.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	mu.Lock()
	root := dir
	mu.Unlock()

	cutoff := now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		// already compressed on an earlier run
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			return fmt.Errorf("compress %s: %w", p, err)
		}
		return os.Remove(p)
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
