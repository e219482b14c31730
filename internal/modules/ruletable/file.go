// README: YAML rule files: the offline source used by ratectl and tests.
package ruletable

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"rateline/internal/types"
)

var ErrEmptyRuleFile = errors.New("rule file is empty")

func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Decode reads one YAML document. Unknown keys are rejected so a misspelt
// column never silently becomes a zero.
func Decode(r io.Reader) (*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyRuleFile
		}
		return nil, err
	}
	snap.normalize()
	snap.LoadedAt = time.Now().UTC()
	return &snap, nil
}

func Encode(w io.Writer, snap *Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}

func (s *Snapshot) normalize() {
	for i := range s.Offices {
		if loc := s.Offices[i].Location; loc != nil {
			c := types.NewCoordinate(loc.Lat, loc.Lng)
			s.Offices[i].Location = &c
		}
	}
	for i := range s.Routes {
		if r := &s.Routes[i]; r.OfficeA > r.OfficeB {
			r.OfficeA, r.OfficeB = r.OfficeB, r.OfficeA
		}
	}
}
