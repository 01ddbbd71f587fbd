package capture

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	planPathRequiredMessageConstant       = "plan file path must be provided"
	planWithoutStepsMessageConstant       = "plan does not define any steps"
	planReadFailureTemplateConstant       = "failed to read plan file %s: %w"
	planParseFailureTemplateConstant      = "failed to parse plan file %s: %w"
	planStepScriptMissingTemplateConstant = "plan step %d does not name a script"
)

// ErrPlanPathRequired indicates an empty plan file path.
var ErrPlanPathRequired = errors.New(planPathRequiredMessageConstant)

// ErrPlanWithoutSteps indicates a plan file that parses but defines no steps.
var ErrPlanWithoutSteps = errors.New(planWithoutStepsMessageConstant)

// PlanStep describes one scripted capture run inside a plan.
type PlanStep struct {
	Name      string   `yaml:"name"`
	Script    string   `yaml:"script"`
	Prefix    string   `yaml:"prefix"`
	Arguments []string `yaml:"args"`
}

// Plan is an ordered list of capture runs loaded from a YAML file.
type Plan struct {
	Steps []PlanStep `yaml:"steps"`
}

type planDocument struct {
	Plan  *Plan      `yaml:"plan"`
	Steps []PlanStep `yaml:"steps"`
}

// LoadPlan reads and validates a capture plan from the provided YAML file.
//
// Steps may sit at the document root under steps or nested under a plan
// mapping. Missing prefixes are derived from each step's script name and a
// missing step name falls back to the prefix.
func LoadPlan(planFilePath string) (Plan, error) {
	trimmedPath := strings.TrimSpace(planFilePath)
	if len(trimmedPath) == 0 {
		return Plan{}, ErrPlanPathRequired
	}

	planContents, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Plan{}, fmt.Errorf(planReadFailureTemplateConstant, trimmedPath, readError)
	}

	document := planDocument{}
	if parseError := yaml.Unmarshal(planContents, &document); parseError != nil {
		return Plan{}, fmt.Errorf(planParseFailureTemplateConstant, trimmedPath, parseError)
	}

	steps := document.Steps
	if len(steps) == 0 && document.Plan != nil {
		steps = document.Plan.Steps
	}
	if len(steps) == 0 {
		return Plan{}, ErrPlanWithoutSteps
	}

	normalizedSteps := make([]PlanStep, 0, len(steps))
	for stepIndex, step := range steps {
		normalized, normalizeError := normalizePlanStep(stepIndex, step)
		if normalizeError != nil {
			return Plan{}, normalizeError
		}
		normalizedSteps = append(normalizedSteps, normalized)
	}

	return Plan{Steps: normalizedSteps}, nil
}

func normalizePlanStep(stepIndex int, step PlanStep) (PlanStep, error) {
	normalized := step

	normalized.Script = strings.TrimSpace(step.Script)
	if len(normalized.Script) == 0 {
		return PlanStep{}, fmt.Errorf(planStepScriptMissingTemplateConstant, stepIndex+1)
	}

	normalized.Prefix = strings.TrimSpace(step.Prefix)
	if len(normalized.Prefix) == 0 {
		normalized.Prefix = DeriveOutputPrefix(normalized.Script)
	}

	normalized.Name = strings.TrimSpace(step.Name)
	if len(normalized.Name) == 0 {
		normalized.Name = normalized.Prefix
	}

	normalized.Arguments = sanitizeArguments(step.Arguments)

	return normalized, nil
}
