package scoring

// Score columns appended by aggregation. The composite column is named
// distinctly from every category column.
const (
	ColEmissionsScore  = "emissions_score"
	ColTransportScore  = "transport_score"
	ColStructuralScore = "structural_score"
	ColComposite       = "jti_score"
)

// normalisedColumns pairs each derived metric feeding a score with its
// normalised [0,1] output column.
var normalisedColumns = []struct{ src, dst string }{
	{"emissions_pc_tco2", "norm_emissions_pc"},
	{"emissions_density_tco2_per_km2", "norm_emissions_density"},
	{"emissions_yoy_pct", "norm_emissions_yoy"},
	{"fuel_pc_ktoe_per_1000", "norm_fuel_pc"},
	{"freight_share", "norm_freight_share"},
	{"bioenergy_share", "norm_bioenergy_share"},
	{"population_yoy_abs", "norm_population_yoy_abs"},
}

// DefaultCategories returns the policy categories and weights for the
// composite index. The weights are policy constants, not tunable at call
// time, and sum to 1.0.
//
// Bioenergy share is the one inverted component: a larger bioenergy share
// of fuel consumption is judged favourable for transition readiness, so it
// contributes 1 - value to the transport mean.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:   "emissions",
			Column: ColEmissionsScore,
			Weight: 0.5,
			Components: []Component{
				{Column: "norm_emissions_pc"},
				{Column: "norm_emissions_density"},
				{Column: "norm_emissions_yoy"},
			},
		},
		{
			Name:   "transport",
			Column: ColTransportScore,
			Weight: 0.4,
			Components: []Component{
				{Column: "norm_fuel_pc"},
				{Column: "norm_freight_share"},
				{Column: "norm_bioenergy_share", Inverted: true},
			},
		},
		{
			Name:   "structural",
			Column: ColStructuralScore,
			Weight: 0.1,
			Components: []Component{
				{Column: "norm_population_yoy_abs"},
			},
		},
	}
}
