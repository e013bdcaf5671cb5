// Package validate checks scene documents before they are loaded. It never
// fails: every problem ends up in the returned Report.
package validate

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the compiled document schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("scene.json", schemaSource)
	})
	return schema, schemaErr
}

type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Summary is a one-line verdict.
func (r Report) Summary() string {
	if len(r.Errors) == 0 {
		return fmt.Sprintf("Valid (%d warning%s)", len(r.Warnings), plural(len(r.Warnings)))
	}
	return fmt.Sprintf("%d error(s), %d warning(s)", len(r.Errors), len(r.Warnings))
}

type checker struct {
	errors   []string
	warnings []string
}

func (c *checker) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *checker) warn(msg string) { c.warnings = append(c.warnings, msg) }

// Validate checks raw document bytes against the schema and the semantic
// rules the runtime relies on.
func Validate(raw []byte) Report {
	var c checker

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.errorf("invalid JSON: %v", err)
		return c.report()
	}
	root, ok := doc.(map[string]any)
	if !ok {
		c.errorf("document must be a JSON object")
		return c.report()
	}

	if sch, err := Schema(); err != nil {
		c.errorf("schema unavailable: %v", err)
	} else if err := sch.Validate(doc); err != nil {
		c.schemaErrors(err)
	}

	c.document(root)
	return c.report()
}

func (c *checker) report() Report {
	return Report{
		Valid:    len(c.errors) == 0,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
}

func (c *checker) schemaErrors(err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		c.errorf("schema: %v", err)
		return
	}
	var leaves []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			leaves = append(leaves, fmt.Sprintf("schema: %s: %s", loc, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	sort.Strings(leaves)
	c.errors = append(c.errors, leaves...)
}

func (c *checker) document(root map[string]any) {
	for _, key := range []string{"id", "version"} {
		if str(root, key) == "" {
			c.errorf("Missing '%s'", key)
		}
	}

	edu := obj(root, "education")
	for _, key := range []string{"concept", "misconception", "correctUnderstanding"} {
		if str(edu, key) == "" {
			c.errorf("Missing 'education.%s'", key)
		}
	}
	scn := obj(root, "scenario")
	for _, key := range []string{"title", "cognitiveConflict"} {
		if str(scn, key) == "" {
			c.errorf("Missing 'scenario.%s'", key)
		}
	}

	ids := c.physics(obj(root, "physics"), root["physics"] != nil)
	c.controls(arr(root, "controls"), ids)

	ped := obj(root, "pedagogy")
	if str(obj(ped, "predict"), "prompt") == "" {
		c.errorf("Missing 'pedagogy.predict.prompt'")
	}
	if str(obj(ped, "observe"), "instructions") == "" {
		c.errorf("Missing 'pedagogy.observe.instructions'")
	}
	if str(obj(ped, "explain"), "prompt") == "" {
		c.errorf("Missing 'pedagogy.explain.prompt'")
	}

	if str(edu, "fciItem") == "" {
		c.warn("No FCI item linked")
	}
	if str(obj(ped, "extend"), "challenge") == "" {
		c.warn("No extension challenge")
	}
	if len(arr(root, "controls")) < 2 {
		c.warn("Few controls - may lack interactivity")
	}
	if str(root, "generatedBy") == "" {
		c.warn("No 'generatedBy' recorded")
	}
}

// physics checks the bodies and returns the set of declared ids.
func (c *checker) physics(phys map[string]any, present bool) map[string]bool {
	if !present || phys["world"] == nil {
		c.errorf("Missing 'physics.world'")
	}

	statics, dynamics := arr(phys, "statics"), arr(phys, "dynamics")
	all := append(append([]any{}, statics...), dynamics...)
	if len(all) == 0 {
		c.errorf("Must have at least one physics object")
	}

	ids := make(map[string]bool, len(all))
	for i, v := range all {
		b, _ := v.(map[string]any)
		id := str(b, "id")
		if id == "" {
			c.errorf("Object %d: missing 'id'", i)
		} else if ids[id] {
			c.errorf("Object '%s': duplicate id", id)
		}
		ids[id] = true

		kind := str(b, "type")
		if kind == "" {
			c.errorf("Object %d: missing 'type'", i)
		}
		if b["position"] == nil {
			c.errorf("Object %d: missing 'position'", i)
		}
		if kind == "rectangle" && b["dimensions"] == nil {
			c.errorf("Object '%s': rectangle needs 'dimensions'", id)
		}
		if kind == "circle" && num(b, "radius") == 0 {
			c.errorf("Object '%s': circle needs 'radius'", id)
		}
	}

	for _, v := range dynamics {
		b, _ := v.(map[string]any)
		p := obj(b, "physics")
		if _, ok := p["mass"]; ok && num(p, "mass") <= 0 {
			c.errorf("'%s': mass must be positive", str(b, "id"))
		}
		if _, ok := p["friction"]; ok {
			if f := num(p, "friction"); f < 0 || f > 1 {
				c.errorf("'%s': friction must be [0, 1]", str(b, "id"))
			}
		}
	}
	return ids
}

func (c *checker) controls(ctrls []any, ids map[string]bool) {
	for i, v := range ctrls {
		ctrl, _ := v.(map[string]any)
		id := str(ctrl, "id")
		if id == "" {
			c.errorf("Control %d: missing 'id'", i)
		}
		if str(ctrl, "type") == "" {
			c.errorf("Control %d: missing 'type'", i)
		}
		if str(ctrl, "label") == "" {
			c.errorf("Control %d: missing 'label'", i)
		}
		if t := str(ctrl, "target"); t != "" && !ids[t] {
			c.errorf("Control '%s': target '%s' does not exist", id, t)
		}

		switch str(ctrl, "type") {
		case "slider":
			r := obj(ctrl, "range")
			if r == nil {
				c.errorf("Control '%s': slider needs 'range'", id)
			} else if num(r, "min") >= num(r, "max") {
				c.errorf("Control '%s': range.min must < range.max", id)
			}
		case "dropdown":
			if len(arr(ctrl, "options")) == 0 {
				c.errorf("Control '%s': dropdown needs 'options'", id)
			}
		case "button":
			if str(ctrl, "action") == "" {
				c.errorf("Control '%s': button needs 'action'", id)
			}
			params := obj(ctrl, "actionParams")
			for _, key := range []string{"objectA", "objectB"} {
				if t := str(obj(params, key), "id"); t != "" && !ids[t] {
					c.errorf("Control '%s': %s '%s' does not exist", id, key, t)
				}
			}
		}
	}
}

func obj(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func arr(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

func num(m map[string]any, key string) float64 {
	v, _ := m[key].(float64)
	return v
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
