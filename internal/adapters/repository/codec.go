package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/roster/internal/domain/model"
)

const jsonIndent = "  "

// fileRecord is the on-disk shape of one roster entry.
type fileRecord struct {
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	Compensation     float64 `json:"compensation"`
	City             string  `json:"city"`
	Education        string  `json:"education"`
	Specialty        string  `json:"specialty"`
	AbsenteeismRate  float64 `json:"absenteeism_rate"`
	PerformanceScore float64 `json:"performance_score"`
	StartTimestamp   string  `json:"start_timestamp"`
}

func toFileRecord(r model.Record) fileRecord {
	return fileRecord{
		Name:             r.Name,
		Role:             r.Role,
		Compensation:     r.Compensation,
		City:             r.City,
		Education:        r.Education,
		Specialty:        r.Specialty,
		AbsenteeismRate:  r.AbsenteeismRate,
		PerformanceScore: r.PerformanceScore,
		StartTimestamp:   r.Start.UTC().Format(model.TimestampLayout),
	}
}

// toRecord rebuilds the record stored under key.
func (f fileRecord) toRecord(key string) (model.Record, error) {
	name := model.NormalizeName(f.Name)
	if name == "" {
		name = model.NormalizeName(key)
	}
	if name != model.NormalizeName(key) {
		return model.Record{}, fmt.Errorf("%w: key %q holds record named %q", ErrDecode, key, f.Name)
	}

	if strings.TrimSpace(f.StartTimestamp) == "" {
		return model.Record{}, fmt.Errorf("%w: %q has no start_timestamp", ErrDecode, key)
	}
	start, err := time.ParseInLocation(model.TimestampLayout, f.StartTimestamp, time.UTC)
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: %q start_timestamp: %w", ErrDecode, key, err)
	}

	rec, err := model.NewRecord(model.Fields{
		Name:             name,
		Role:             f.Role,
		Compensation:     f.Compensation,
		City:             f.City,
		Education:        f.Education,
		Specialty:        f.Specialty,
		AbsenteeismRate:  f.AbsenteeismRate,
		PerformanceScore: f.PerformanceScore,
	}, start)
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: %q: %w", ErrDecode, key, err)
	}
	return rec, nil
}

// encodeRoster writes records as one JSON object keyed by name, keeping the
// given order.
func encodeRoster(order []string, records map[string]model.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(toFileRecord(records[name]))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", jsonIndent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// decodeRoster parses a roster file, returning records and their file order.
// A key repeated in the file keeps its first position and its last value.
func decodeRoster(data []byte) ([]string, map[string]model.Record, error) {
	records := make(map[string]model.Record)
	var order []string

	if len(bytes.TrimSpace(data)) == 0 {
		return order, records, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unexpected token %v", ErrDecode, tok)
		}

		var fr fileRecord
		if err := dec.Decode(&fr); err != nil {
			return nil, nil, fmt.Errorf("%w: %q: %w", ErrDecode, key, err)
		}
		rec, err := fr.toRecord(key)
		if err != nil {
			return nil, nil, err
		}

		if _, seen := records[rec.Name]; !seen {
			order = append(order, rec.Name)
		}
		records[rec.Name] = rec
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: trailing data after roster object", ErrDecode)
	}
	return order, records, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrDecode, want, tok)
	}
	return nil
}
