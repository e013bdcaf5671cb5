package batch

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Plan is a YAML list of runs and sweeps.
//
//	name: friction study
//	runs:
//	  - name: rough
//	    scenario: friction
//	    duration: 5
//	    push: ["box:0.05,0"]
//	sweeps:
//	  - name: floor
//	    scenario: friction
//	    duration: 5
//	    push: ["box:0.05,0"]
//	    param: ground.friction
//	    from: 0
//	    to: 1
//	    steps: 5
type Plan struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Runs        []Spec  `yaml:"runs"`
	Sweeps      []Sweep `yaml:"sweeps,omitempty"`
}

// Sweep repeats a run once per value of one body property, spaced evenly
// from From to To. The value is set at time 0.
type Sweep struct {
	Spec  `yaml:",inline"`
	Param string  `yaml:"param"`
	From  float64 `yaml:"from"`
	To    float64 `yaml:"to"`
	Steps int     `yaml:"steps"`
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}

	return &plan, nil
}

// Specs expands the plan into individual runs, sweeps last. Unnamed runs
// are named after their scenario and position.
func (p *Plan) Specs() ([]Spec, error) {
	specs := make([]Spec, 0, len(p.Runs))
	for i, r := range p.Runs {
		if r.Scenario == "" {
			return nil, fmt.Errorf("run %d: no scenario", i+1)
		}
		if r.Name == "" {
			r.Name = fmt.Sprintf("%s-%d", r.Scenario, i+1)
		}
		specs = append(specs, r)
	}
	for i, sw := range p.Sweeps {
		expanded, err := sw.Specs()
		if err != nil {
			return nil, fmt.Errorf("sweep %d: %w", i+1, err)
		}
		specs = append(specs, expanded...)
	}
	return specs, nil
}

func (sw Sweep) Specs() ([]Spec, error) {
	if sw.Scenario == "" {
		return nil, fmt.Errorf("no scenario")
	}
	if sw.Steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1, got %d", sw.Steps)
	}
	// validate the parameter once through the set parser
	if _, err := ParseSet(sw.Param + "=0"); err != nil {
		return nil, err
	}
	name := sw.Name
	if name == "" {
		name = sw.Scenario
	}

	specs := make([]Spec, sw.Steps)
	for i := range specs {
		v := sw.From
		if sw.Steps > 1 {
			v += (sw.To - sw.From) * float64(i) / float64(sw.Steps-1)
		}
		val := strconv.FormatFloat(v, 'g', -1, 64)
		spec := sw.Spec
		spec.Name = fmt.Sprintf("%s[%s=%s]", name, sw.Param, val)
		spec.Set = append(append([]string{}, sw.Set...), sw.Param+"="+val)
		specs[i] = spec
	}
	return specs, nil
}

