package equity

// Weights multiply the raw board and offense features.
type Weights struct {
	Hole             float32 `yaml:"hole"`
	HoleDepth        float32 `yaml:"hole_depth"`
	HLocalDeviation  float32 `yaml:"h_local_deviation"`
	HGlobalDeviation float32 `yaml:"h_global_deviation"`
	AverageH         float32 `yaml:"average_h"`
	SumAttack        float32 `yaml:"sum_attack"`
	SumDownstack     float32 `yaml:"sum_downstack"`
	Attack           float32 `yaml:"attack"`
	Downstack        float32 `yaml:"downstack"`
	Eff              float32 `yaml:"eff"`
}

// Factors shape the features themselves rather than weighting them.
type Factors struct {
	// IdealH is the stack height (in rows) the height term pulls toward.
	IdealH float32 `yaml:"ideal_h"`
	// WellThreshold is how far below the average a column must sit to be
	// treated as a well.
	WellThreshold float32 `yaml:"well_threshold"`
}

// Profile is one complete weighting mode.
type Profile struct {
	Weights `yaml:",inline"`
	Factors `yaml:",inline"`
}

// Profiles is the full evaluator configuration: the two modes and the
// rule that switches between them. It is a plain value; copies are
// independent.
type Profiles struct {
	// The downstack profile is used when the stack is more than
	// DSHeightThreshold rows tall or has any hole, and DSModePenalty is
	// added to the score when it is.
	DSHeightThreshold float32 `yaml:"ds_height_threshold"`
	DSModePenalty     float32 `yaml:"ds_mode_penalty"`

	Normal    Profile `yaml:"normal"`
	Downstack Profile `yaml:"downstack"`
}

// DefaultProfiles returns the built-in weights.
func DefaultProfiles() Profiles {
	return Profiles{
		DSHeightThreshold: 14,
		DSModePenalty:     -2000,
		Normal: Profile{
			Weights: Weights{
				Hole:             -100,
				HoleDepth:        -10,
				HLocalDeviation:  -5,
				HGlobalDeviation: -1,
				AverageH:         -10,
				SumAttack:        40,
				SumDownstack:     15,
				Attack:           35,
				Downstack:        10,
				Eff:              50,
			},
			Factors: Factors{
				IdealH:        5,
				WellThreshold: 4,
			},
		},
		Downstack: Profile{
			Weights: Weights{
				Hole:             -150,
				HoleDepth:        -15,
				HLocalDeviation:  -10,
				HGlobalDeviation: -1,
				AverageH:         -20,
				SumAttack:        0,
				SumDownstack:     350,
				Attack:           0,
				Downstack:        30,
				Eff:              50,
			},
			Factors: Factors{
				IdealH:        0,
				WellThreshold: 20,
			},
		},
	}
}
