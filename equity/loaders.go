package equity

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var ErrBadProfile = errors.New("invalid profile")

// ReadProfiles decodes a YAML profile set. Keys that are absent keep their
// built-in values, so a file only needs to list what it changes. Unknown
// keys are rejected.
func ReadProfiles(r io.Reader) (Profiles, error) {
	p := DefaultProfiles()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return Profiles{}, err
	}
	if err := p.validate(); err != nil {
		return Profiles{}, err
	}
	return p, nil
}

func loadProfiles(profilesPath, filename string) (Profiles, error) {
	f, err := os.Open(filepath.Join(profilesPath, filename))
	if err != nil {
		return Profiles{}, err
	}
	defer f.Close()
	p, err := ReadProfiles(f)
	if err != nil {
		return Profiles{}, fmt.Errorf("%s: %w", filename, err)
	}
	log.Debug().Str("profile", filename).
		Float32("ds-threshold", p.DSHeightThreshold).
		Msg("loaded-profiles")
	return p, nil
}

func (p Profiles) validate() error {
	vals := []float32{p.DSHeightThreshold, p.DSModePenalty}
	for _, prof := range []Profile{p.Normal, p.Downstack} {
		w, f := prof.Weights, prof.Factors
		vals = append(vals, w.Hole, w.HoleDepth, w.HLocalDeviation,
			w.HGlobalDeviation, w.AverageH, w.SumAttack, w.SumDownstack,
			w.Attack, w.Downstack, w.Eff, f.IdealH, f.WellThreshold)
		if f.WellThreshold < 0 {
			return fmt.Errorf("%w: negative well_threshold", ErrBadProfile)
		}
	}
	for _, v := range vals {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: non-finite value", ErrBadProfile)
		}
	}
	return nil
}
