// Package csvcatalog loads the static catalog table from a CSV file.
package csvcatalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
)

var _ ports.CatalogSource = (*Loader)(nil)

// requiredColumns must be present in the header; every other column is optional.
var requiredColumns = []string{
	"name", "year", "valence", "acousticness", "danceability", "duration_ms",
	"energy", "instrumentalness", "key", "liveness", "loudness", "mode",
	"speechiness", "tempo",
}

// Loader reads a catalog CSV from disk.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// LoadCatalog reads and parses the file at the loader's path.
func (l *Loader) LoadCatalog(ctx context.Context) ([]domain.Track, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("csvcatalog: open %s: %w", l.path, err)
	}
	defer f.Close()

	return Parse(ctx, f)
}

// Parse reads catalog rows in file order. Columns are matched by header name;
// unknown columns are ignored.
func Parse(ctx context.Context, r io.Reader) ([]domain.Track, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &domain.ValidationError{Field: "header", Reason: "file is empty"}
		}
		return nil, fmt.Errorf("csvcatalog: read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, &domain.ValidationError{Field: "header", Reason: fmt.Sprintf("missing column %q", c)}
		}
	}

	var tracks []domain.Track
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvcatalog: line %d: %w", line, err)
		}

		t, err := parseRow(rowView{cols: cols, record: record, line: line})
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}

	return tracks, nil
}

type rowView struct {
	cols   map[string]int
	record []string
	line   int
}

func (r rowView) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r rowView) invalid(col, reason string) error {
	return &domain.ValidationError{Field: fmt.Sprintf("line %d: %s", r.line, col), Reason: reason}
}

func (r rowView) float(col string) (float64, error) {
	raw := r.get(col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, r.invalid(col, fmt.Sprintf("not a number: %q", raw))
	}
	return v, nil
}

func (r rowView) int(col string, required bool) (int, error) {
	raw := r.get(col)
	if raw == "" && !required {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, r.invalid(col, fmt.Sprintf("not a number: %q", raw))
	}
	return int(v), nil
}

func parseRow(r rowView) (domain.Track, error) {
	t := domain.Track{
		ID:          r.get("id"),
		Name:        r.get("name"),
		Artists:     ParseArtists(r.get("artists")),
		Album:       r.get("album"),
		PreviewURL:  r.get("preview_url"),
		ExternalURL: r.get("external_url"),
		Explicit:    parseBool(r.get("explicit")),
	}
	if t.Name == "" {
		return domain.Track{}, r.invalid("name", "is empty")
	}

	var err error
	if t.Year, err = r.int("year", true); err != nil {
		return domain.Track{}, err
	}
	if t.DurationMs, err = r.int("duration_ms", true); err != nil {
		return domain.Track{}, err
	}
	if t.Popularity, err = r.int("popularity", false); err != nil {
		return domain.Track{}, err
	}

	f := &t.Features
	for _, field := range []struct {
		col string
		dst *float64
	}{
		{"valence", &f.Valence},
		{"acousticness", &f.Acousticness},
		{"danceability", &f.Danceability},
		{"energy", &f.Energy},
		{"instrumentalness", &f.Instrumentalness},
		{"key", &f.Key},
		{"liveness", &f.Liveness},
		{"loudness", &f.Loudness},
		{"mode", &f.Mode},
		{"speechiness", &f.Speechiness},
		{"tempo", &f.Tempo},
	} {
		if *field.dst, err = r.float(field.col); err != nil {
			return domain.Track{}, err
		}
	}

	return t, nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// ParseArtists reads an artists cell. Both the list literal form
// ['A', "B's"] and plain text are accepted; plain text is one artist.
func ParseArtists(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return []string{raw}
	}

	inner := raw[1 : len(raw)-1]
	var (
		names []string
		quote rune
		cur   strings.Builder
	)
	for _, ch := range inner {
		switch {
		case quote == 0 && (ch == '\'' || ch == '"'):
			quote = ch
		case quote != 0 && ch == quote:
			names = append(names, cur.String())
			cur.Reset()
			quote = 0
		case quote != 0:
			cur.WriteRune(ch)
		}
	}
	if quote != 0 && cur.Len() > 0 {
		names = append(names, cur.String())
	}
	if names == nil {
		return []string{}
	}
	return names
}
