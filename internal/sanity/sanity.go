// Package sanity validates extracted check-size figures against internal
// consistency and the plausibility window implied by an investor's declared
// funding stages. Implausible values are cleared to unknown, never rejected:
// a record that fails every check still flows into scoring with both bounds
// nil and its warnings attached as data-quality flags.
package sanity

import (
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/evolute-hq/invscreen/internal/model"
	"github.com/evolute-hq/invscreen/internal/normalize"
)

// Absolute plausibility window for a single check, whole currency units.
const (
	absoluteMin = int64(1_000)
	absoluteMax = int64(1_000_000_000)
)

//go:embed stages.yaml
var stagesYAML []byte

// StageRange is the plausible check-size window for one funding stage.
type StageRange struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

type stageTable struct {
	Stages map[string]StageRange `yaml:"stages"`
}

var stageRanges = mustLoadStageRanges()

func mustLoadStageRanges() map[string]StageRange {
	var t stageTable
	if err := yaml.Unmarshal(stagesYAML, &t); err != nil {
		panic("sanity: parse embedded stage table: " + err.Error())
	}
	return t.Stages
}

// RangeForStage returns the plausible window for a canonical stage tag.
func RangeForStage(stage string) (StageRange, bool) {
	r, ok := stageRanges[normalize.Stage(stage)]
	return r, ok
}

// Report is the outcome of validating one enrichment record.
type Report struct {
	Valid          bool
	Warnings       []string
	ClearCheckSize bool
}

// Joined returns the warnings as a single display string.
func (r Report) Joined() string {
	return strings.Join(r.Warnings, "; ")
}

// Check validates the check-size bounds of a normalized enrichment record.
// Each rule flags independently; none aborts the pipeline.
func Check(e *model.EnrichmentData) Report {
	report := Report{Valid: true}
	if e == nil {
		return report
	}

	flag := func(format string, args ...any) {
		report.Valid = false
		report.ClearCheckSize = true
		report.Warnings = append(report.Warnings, fmt.Sprintf(format, args...))
	}

	if e.CheckSizeMin != nil && e.CheckSizeMax != nil && *e.CheckSizeMin > *e.CheckSizeMax {
		flag("check size min %s exceeds max %s",
			normalize.EURCompact(*e.CheckSizeMin), normalize.EURCompact(*e.CheckSizeMax))
	}

	for _, bound := range []struct {
		name  string
		value *int64
	}{
		{"min", e.CheckSizeMin},
		{"max", e.CheckSizeMax},
	} {
		if bound.value == nil {
			continue
		}
		if *bound.value < absoluteMin || *bound.value > absoluteMax {
			flag("check size %s %s outside plausible window %s–%s",
				bound.name, normalize.EURCompact(*bound.value),
				normalize.EURCompact(absoluteMin), normalize.EURCompact(absoluteMax))
		}
	}

	if b, ok := stageImpliedBounds(e.Stages); ok {
		if e.CheckSizeMin != nil {
			if *e.CheckSizeMin > 2*b.lowestMax {
				flag("check size min %s is more than double the %s ceiling for declared stages",
					normalize.EURCompact(*e.CheckSizeMin), normalize.EURCompact(b.lowestMax))
			} else if *e.CheckSizeMin > 5*b.highestMax {
				flag("check size min %s is more than 5x the %s ceiling for declared stages",
					normalize.EURCompact(*e.CheckSizeMin), normalize.EURCompact(b.highestMax))
			}
		}
		if e.CheckSizeMax != nil && *e.CheckSizeMax < b.lowestMin/10 {
			flag("check size max %s is under a tenth of the %s floor for declared stages",
				normalize.EURCompact(*e.CheckSizeMax), normalize.EURCompact(b.lowestMin))
		}
	}

	return report
}

// Apply runs Check and, when flagged, clears both check-size bounds on the
// record. Idempotent: a cleared record has nothing left to flag.
func Apply(e *model.EnrichmentData) Report {
	report := Check(e)
	if report.ClearCheckSize && e != nil {
		zap.L().Debug("sanity: clearing implausible check size",
			zap.Strings("warnings", report.Warnings),
		)
		e.CheckSizeMin = nil
		e.CheckSizeMax = nil
	}
	return report
}

// impliedBounds is the union of stage-implied windows across declared stages.
type impliedBounds struct {
	lowestMin  int64
	lowestMax  int64
	highestMax int64
}

// stageImpliedBounds unions the windows of the declared stages that appear
// in the table. ok is false when no declared stage is known.
func stageImpliedBounds(stages []string) (impliedBounds, bool) {
	var b impliedBounds
	found := false
	for _, s := range stages {
		r, known := RangeForStage(s)
		if !known {
			continue
		}
		if !found {
			b = impliedBounds{lowestMin: r.Min, lowestMax: r.Max, highestMax: r.Max}
			found = true
			continue
		}
		if r.Min < b.lowestMin {
			b.lowestMin = r.Min
		}
		if r.Max < b.lowestMax {
			b.lowestMax = r.Max
		}
		if r.Max > b.highestMax {
			b.highestMax = r.Max
		}
	}
	return b, found
}
