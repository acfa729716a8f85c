// Package dataset loads the date-keyed returns record.
//
// The source is a single JSON object mapping day keys to
// [accountReturn, globalIndexReturn] pairs. Key order is significant and is
// preserved, so the object is read token by token rather than into a map.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/bobmcallan/returnchart/internal/calendar"
	"github.com/bobmcallan/returnchart/internal/models"
)

// ErrInvalidDataset is returned for input that is not a usable returns record.
var ErrInvalidDataset = errors.New("invalid dataset")

// Options controls decoding.
type Options struct {
	// Strict rejects malformed pairs, duplicate keys, unparseable dates and
	// out-of-order keys. When false, bad slots become NaN and a repeated key
	// overwrites the earlier value in place.
	Strict bool
}

// LoadFile decodes the dataset at path.
func LoadFile(path string, opts Options) (*models.RawDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return ds, nil
}

// Decode reads a returns object from r.
func Decode(r io.Reader, opts Options) (*models.RawDataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidDataset)
	}

	ds := &models.RawDataset{}
	index := make(map[string]int)
	var prev time.Time

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrInvalidDataset, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidDataset, key, err)
		}

		pair, err := decodePair(raw, opts.Strict)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidDataset, key, err)
		}

		if at, dup := index[key]; dup {
			if opts.Strict {
				return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidDataset, key)
			}
			ds.Entries[at].Values = pair
			continue
		}

		if opts.Strict {
			day, err := calendar.Parse(key)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
			}
			if !prev.IsZero() && !day.After(prev) {
				return nil, fmt.Errorf("%w: key %q is not after %s", ErrInvalidDataset, key, prev.Format(calendar.DateFormat))
			}
			prev = day
		}

		index[key] = len(ds.Entries)
		ds.Entries = append(ds.Entries, models.RawEntry{Key: key, Values: pair})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return ds, nil
}

// decodePair reads one [a, g] value. In lenient mode anything that is not a
// number in its slot becomes NaN.
func decodePair(raw json.RawMessage, strict bool) (models.ReturnPair, error) {
	nan := models.ReturnPair{math.NaN(), math.NaN()}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var vals []any
	if err := dec.Decode(&vals); err != nil {
		if strict {
			return nan, fmt.Errorf("want [number, number], got %s", raw)
		}
		return nan, nil
	}

	if strict && len(vals) != 2 {
		return nan, fmt.Errorf("want 2 values, got %d", len(vals))
	}

	pair := nan
	for i := 0; i < len(pair) && i < len(vals); i++ {
		n, ok := vals[i].(json.Number)
		if !ok {
			if strict {
				return nan, fmt.Errorf("value %d is not a number: %v", i, vals[i])
			}
			continue
		}
		f, err := n.Float64()
		if err != nil {
			if strict {
				return nan, fmt.Errorf("value %d: %w", i, err)
			}
			continue
		}
		pair[i] = f
	}
	return pair, nil
}
