package decision

import "fmt"

// WeightSumTolerance is the accepted deviation of the driver-weight sum
// from 1.0.
const WeightSumTolerance = 0.05

// Driver keys with a fixed semantic direction. A decision must not be
// primarily explained by a driver that contradicts it.
const (
	DriverHandStrength = "hand_strength"
	DriverRisk         = "risk"
)

// SanityProblems applies the semantic-sanity rules to an already
// schema-valid decision and returns a description of every violation.
//
// In the live pipeline these are advisory: the gateway logs them as warnings
// and proceeds. The standalone strict validator treats any problem as a
// rejection.
func SanityProblems(d *Decision) []string {
	var problems []string

	if len(d.Reason.Drivers) < 2 {
		problems = append(problems, fmt.Sprintf("expected at least 2 drivers, got %d", len(d.Reason.Drivers)))
	}

	sum := 0.0
	for _, drv := range d.Reason.Drivers {
		if drv.Weight < 0 || drv.Weight > 1 {
			problems = append(problems, fmt.Sprintf("driver %q weight %.3f outside [0,1]", drv.Key, drv.Weight))
		}
		sum += drv.Weight
	}
	if len(d.Reason.Drivers) > 0 && (sum < 1-WeightSumTolerance || sum > 1+WeightSumTolerance) {
		problems = append(problems, fmt.Sprintf("driver weights sum to %.3f, expected ~1.0", sum))
	}

	if d.Confidence < 0 || d.Confidence > 1 {
		problems = append(problems, fmt.Sprintf("confidence %.3f outside [0,1]", d.Confidence))
	}

	if d.Reason.Line == "" {
		problems = append(problems, "reason.line is empty")
	}

	if top, ok := topDriver(d.Reason.Drivers); ok {
		if d.Action.Type == Fold && top.Key == DriverHandStrength {
			problems = append(problems, "FOLD is top-driven by hand_strength")
		}
		if d.Action.Type == Raise && top.Key == DriverRisk {
			problems = append(problems, "RAISE is top-driven by risk")
		}
	}

	return problems
}

func topDriver(drivers []Driver) (Driver, bool) {
	if len(drivers) == 0 {
		return Driver{}, false
	}
	top := drivers[0]
	for _, d := range drivers[1:] {
		if d.Weight > top.Weight {
			top = d
		}
	}
	return top, true
}
