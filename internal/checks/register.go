package checks

import (
	"marineqc/internal/obs"
	"marineqc/internal/qc"
)

var (
	floatColumn = qc.SeriesOf(obs.Float)
	timeColumn  = qc.SeriesOf(obs.Time)

	// climatological normals arrive either as a preprocessed column or as
	// one literal for the whole group
	climValue = qc.Union(floatColumn, qc.FloatType)

	floatPair = qc.TupleOf(qc.FloatType, qc.FloatType)
)

// dateParams are the parameters shared by every check that needs the
// observation time: either a timestamp column or separate component
// columns.
func dateParams() []qc.Param {
	return []qc.Param{
		{Name: "date", Type: timeColumn},
		{Name: "year", Type: floatColumn},
		{Name: "month", Type: floatColumn},
		{Name: "day", Type: floatColumn},
		{Name: "hour", Type: floatColumn},
	}
}

func withDateParams(params ...qc.Param) []qc.Param {
	return append(params, dateParams()...)
}

var unitsReserved = []string{unitsKeyword}

func init() {
	r := qc.DefaultRegistry()

	// individual checks

	r.MustRegister(qc.Registration{
		Name: "missing_value_check",
		Params: []qc.Param{
			{Name: "value", Type: qc.SeriesType, Required: true},
		},
		Call: missingValueCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "missing_value_clim_check",
		Params: []qc.Param{
			{Name: "climatology", Type: climValue, Required: true},
		},
		Call: missingValueClimCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "position_check",
		Params: []qc.Param{
			{Name: "lat", Type: floatColumn, Required: true},
			{Name: "lon", Type: floatColumn, Required: true},
		},
		Call: positionCheck,
	})

	r.MustRegister(qc.Registration{
		Name:   "date_check",
		Params: dateParams(),
		Call:   dateCheck,
	})

	r.MustRegister(qc.Registration{
		Name:   "time_check",
		Params: dateParams(),
		Call:   timeCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "day_check",
		Params: withDateParams(
			qc.Param{Name: "lat", Type: floatColumn, Required: true},
			qc.Param{Name: "lon", Type: floatColumn, Required: true},
			qc.Param{Name: "time_since_sun_above_horizon", Type: qc.FloatType},
		),
		Call: dayCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "night_check",
		Params: withDateParams(
			qc.Param{Name: "lat", Type: floatColumn, Required: true},
			qc.Param{Name: "lon", Type: floatColumn, Required: true},
			qc.Param{Name: "time_since_sun_above_horizon", Type: qc.FloatType},
		),
		Call: nightCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "hard_limit_check",
		Params: []qc.Param{
			{Name: "value", Type: floatColumn, Required: true},
			{Name: "limits", Type: floatPair, Required: true},
		},
		Reserved: unitsReserved,
		Call: withUnits(map[string]string{
			"value":  "unknown",
			"limits": "unknown",
		}, hardLimitCheck),
	})

	r.MustRegister(qc.Registration{
		Name: "climatology_check",
		Params: []qc.Param{
			{Name: "value", Type: floatColumn, Required: true},
			{Name: "climatology", Type: climValue, Required: true},
			{Name: "maximum_anomaly", Type: qc.FloatType, Required: true},
			{Name: "standard_deviation", Type: climValue},
			{Name: "standard_deviation_limits", Type: floatPair},
			{Name: "lowbar", Type: qc.FloatType},
		},
		Reserved: unitsReserved,
		Call: withUnits(map[string]string{
			"value":       "unknown",
			"climatology": "unknown",
		}, climatologyCheck),
	})

	r.MustRegister(qc.Registration{
		Name: "supersaturation_check",
		Params: []qc.Param{
			{Name: "dpt", Type: floatColumn, Required: true},
			{Name: "at2", Type: floatColumn, Required: true},
		},
		Call: supersaturationCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "sst_freeze_check",
		Params: []qc.Param{
			{Name: "sst", Type: floatColumn, Required: true},
			{Name: "freezing_point", Type: qc.FloatType, Required: true},
			{Name: "freeze_check_n_sigma", Type: qc.FloatType},
			{Name: "sst_uncertainty", Type: qc.FloatType},
		},
		Reserved: unitsReserved,
		Call: withUnits(map[string]string{
			"sst":            "degC",
			"freezing_point": "degC",
		}, sstFreezeCheck),
	})

	r.MustRegister(qc.Registration{
		Name: "wind_consistency_check",
		Params: []qc.Param{
			{Name: "wind_speed", Type: floatColumn, Required: true},
			{Name: "wind_direction", Type: floatColumn, Required: true},
		},
		Call: windConsistencyCheck,
	})

	// sequential checks

	r.MustRegister(qc.Registration{
		Name: "spike_check",
		Params: []qc.Param{
			{Name: "value", Type: floatColumn, Required: true},
			{Name: "lat", Type: floatColumn, Required: true},
			{Name: "lon", Type: floatColumn, Required: true},
			{Name: "date", Type: timeColumn, Required: true},
			{Name: "max_gradient_space", Type: qc.FloatType, Required: true},
			{Name: "max_gradient_time", Type: qc.FloatType, Required: true},
			{Name: "delta_t", Type: qc.FloatType, Required: true},
			{Name: "n_neighbours", Type: qc.IntType},
		},
		Call: spikeCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "track_check",
		Params: []qc.Param{
			{Name: "lat", Type: floatColumn, Required: true},
			{Name: "lon", Type: floatColumn, Required: true},
			{Name: "date", Type: timeColumn, Required: true},
			{Name: "vsi", Type: floatColumn, Required: true},
			{Name: "dsi", Type: floatColumn, Required: true},
			{Name: "max_direction_change", Type: qc.FloatType, Required: true},
			{Name: "max_speed_change", Type: qc.FloatType, Required: true},
			{Name: "max_absolute_speed", Type: qc.FloatType, Required: true},
			{Name: "max_midpoint_discrepancy", Type: qc.FloatType, Required: true},
		},
		Reserved: unitsReserved,
		Call: withUnits(map[string]string{
			"vsi":                      "km/h",
			"max_speed_change":         "km/h",
			"max_absolute_speed":       "km/h",
			"max_midpoint_discrepancy": "unknown",
		}, trackCheck),
	})

	r.MustRegister(qc.Registration{
		Name: "iquam_track_check",
		Params: []qc.Param{
			{Name: "lat", Type: floatColumn, Required: true},
			{Name: "lon", Type: floatColumn, Required: true},
			{Name: "date", Type: timeColumn, Required: true},
			{Name: "speed_limit", Type: qc.FloatType, Required: true},
			{Name: "delta_d", Type: qc.FloatType, Required: true},
			{Name: "delta_t", Type: qc.FloatType, Required: true},
			{Name: "n_neighbours", Type: qc.IntType},
		},
		Reserved: unitsReserved,
		Call: withUnits(map[string]string{
			"speed_limit": "km/h",
		}, iquamTrackCheck),
	})

	r.MustRegister(qc.Registration{
		Name: "few_check",
		Params: []qc.Param{
			{Name: "value", Type: qc.SeriesType, Required: true},
			{Name: "min_reports", Type: qc.IntType},
		},
		Call: fewCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "repeated_value_check",
		Params: []qc.Param{
			{Name: "value", Type: floatColumn, Required: true},
			{Name: "min_count", Type: qc.IntType},
			{Name: "threshold", Type: qc.FloatType, Required: true},
		},
		Call: repeatedValueCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "rounded_value_check",
		Params: []qc.Param{
			{Name: "value", Type: floatColumn, Required: true},
			{Name: "min_count", Type: qc.IntType},
			{Name: "threshold", Type: qc.FloatType, Required: true},
		},
		Call: roundedValueCheck,
	})

	r.MustRegister(qc.Registration{
		Name: "saturated_runs_check",
		Params: []qc.Param{
			{Name: "at", Type: floatColumn, Required: true},
			{Name: "dpt", Type: floatColumn, Required: true},
			{Name: "lat", Type: floatColumn, Required: true},
			{Name: "lon", Type: floatColumn, Required: true},
			{Name: "date", Type: timeColumn, Required: true},
			{Name: "min_time_threshold", Type: qc.FloatType, Required: true},
			{Name: "shortest_run", Type: qc.IntType},
		},
		Call: saturatedRunsCheck,
	})

	// grouped checks

	r.MustRegister(qc.Registration{
		Name: "buddy_check",
		Params: []qc.Param{
			{Name: "value", Type: floatColumn, Required: true},
			{Name: "climatology", Type: climValue, Required: true},
			{Name: "n_sigma", Type: qc.FloatType},
			{Name: "min_buddies", Type: qc.IntType},
		},
		Call: buddyCheck,
	})

	// preprocessing

	r.MustRegister(qc.Registration{
		Name: "climatological_value",
		Params: withDateParams(
			qc.Param{Name: "climatology", Type: qc.AnyType, Required: true},
			qc.Param{Name: "lat", Type: floatColumn, Required: true},
			qc.Param{Name: "lon", Type: floatColumn, Required: true},
		),
		AcceptsExtra: true,
		Call:         climatologicalValue,
	})
}
