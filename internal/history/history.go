// Package history keeps an index of past audit runs so repeated audits of the
// same URL can report a trend.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/selimozcann/seoaudit/internal/model"
)

const maxEntries = 1000

// Trend labels.
const (
	FirstRun  = "FIRST_RUN"
	Improving = "IMPROVING"
	Declining = "DECLINING"
	Same      = "SAME"
)

type IndexEntry struct {
	TimestampUTC string       `json:"timestampUtc"`
	URL          string       `json:"url"`
	Overall      int          `json:"overall"`
	Scores       model.Scores `json:"scores"`
	Issues       int          `json:"issues"`
	Warnings     int          `json:"warnings"`
	JSONFile     string       `json:"jsonFile"`
}

type Index struct {
	Entries []IndexEntry `json:"entries"`
}

type Trend struct {
	Previous int // -1 on the first run
	Current  int
	Delta    int
	Label    string
}

// Record stores res under dir/history and appends it to the index. The trend
// compares against the latest earlier run of the same URL.
func Record(dir string, res model.AuditResult) (Trend, error) {
	historyDir := filepath.Join(dir, "history")
	if err := os.MkdirAll(historyDir, 0o755); err != nil {
		return Trend{}, err
	}

	idx, err := Load(dir)
	if err != nil {
		return Trend{}, err
	}

	prev := -1
	for i := len(idx.Entries) - 1; i >= 0; i-- {
		if idx.Entries[i].URL == res.URL {
			prev = idx.Entries[i].Overall
			break
		}
	}

	ts := res.Timestamp.UTC()
	name, err := writeSnapshot(historyDir, fmt.Sprintf("audit-%s-%s", slug(res.URL), ts.Format("20060102-150405.000000000")), res)
	if err != nil {
		return Trend{}, err
	}

	idx.Entries = append(idx.Entries, IndexEntry{
		TimestampUTC: ts.Format(time.RFC3339Nano),
		URL:          res.URL,
		Overall:      res.OverallScore,
		Scores:       res.Scores,
		Issues:       res.IssuesFound,
		Warnings:     res.WarningsFound,
		JSONFile:     filepath.ToSlash(filepath.Join("history", name)),
	})
	if len(idx.Entries) > maxEntries {
		idx.Entries = idx.Entries[len(idx.Entries)-maxEntries:]
	}
	if err := writeJSON(indexPath(dir), idx); err != nil {
		return Trend{}, err
	}

	return Compute(prev, res.OverallScore), nil
}

// Compute labels the move from prev to curr. A negative prev means there is
// no earlier run.
func Compute(prev, curr int) Trend {
	tr := Trend{Previous: prev, Current: curr, Label: FirstRun}
	if prev < 0 {
		return tr
	}
	tr.Delta = curr - prev
	switch {
	case tr.Delta > 0:
		tr.Label = Improving
	case tr.Delta < 0:
		tr.Label = Declining
	default:
		tr.Label = Same
	}
	return tr
}

// Load reads dir/history/index.json. A missing index is empty.
func Load(dir string) (Index, error) {
	var idx Index
	raw, err := os.ReadFile(indexPath(dir))
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return idx, err
	}
	if len(raw) == 0 {
		return idx, nil
	}
	if err := json.Unmarshal(raw, &idx); err != nil {
		return idx, fmt.Errorf("parse history index: %w", err)
	}
	return idx, nil
}

// For returns the entries recorded for target, oldest first.
func (idx Index) For(target string) []IndexEntry {
	var out []IndexEntry
	for _, e := range idx.Entries {
		if e.URL == target {
			out = append(out, e)
		}
	}
	return out
}

// Usage counts the entries recorded in the 24 hours and the hour before now.
func (idx Index) Usage(now time.Time) (day, hour int) {
	for _, e := range idx.Entries {
		ts, err := time.Parse(time.RFC3339Nano, e.TimestampUTC)
		if err != nil {
			continue
		}
		age := now.Sub(ts)
		if age < 0 || age >= 24*time.Hour {
			continue
		}
		day++
		if age < time.Hour {
			hour++
		}
	}
	return day, hour
}

func indexPath(dir string) string {
	return filepath.Join(dir, "history", "index.json")
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encode(f, v)
}

// writeSnapshot creates base.json in dir, adding a -N suffix when a run with
// the same name already exists. It returns the file name used.
func writeSnapshot(dir, base string, v any) (string, error) {
	for n := 0; ; n++ {
		name := base + ".json"
		if n > 0 {
			name = fmt.Sprintf("%s-%d.json", base, n)
		}
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		err = encode(f, v)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return name, err
	}
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func slug(raw string) string {
	host := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host + u.Path
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, host)
	s = strings.Trim(s, "_")
	if s == "" {
		return "page"
	}
	return s
}
