package guide

import (
	"fmt"

	"github.com/shinji-kodama/calver/internal/model"
	"github.com/shinji-kodama/calver/internal/revision"
)

// Action is the kind of git operation a Step describes.
type Action string

const (
	// ActionTag tags Source as a release.
	ActionTag Action = "tag"

	// ActionMerge merges Source into Target.
	ActionMerge Action = "merge"

	// ActionBranch creates branch Target off Source.
	ActionBranch Action = "branch"
)

// OutstandingBranches is the Source of a merge step that covers every
// branch still open for the month.
const OutstandingBranches = "*"

// Step is one git operation in a Plan.
type Step struct {
	Action Action `json:"action" yaml:"action"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Descendants is set on merges that must also be carried forward into
	// every branch that descends from Target.
	Descendants bool `json:"descendants,omitempty" yaml:"descendants,omitempty"`
}

// Plan is the guidance for one invocation.
type Plan struct {
	Mode model.Mode `json:"mode" yaml:"mode"`

	// Input is the revision the guidance was derived from.
	Input revision.Revision `json:"input" yaml:"input"`

	// Target is the revision work should continue on once the plan is done.
	Target revision.Revision `json:"target" yaml:"target"`

	Instructions []string `json:"instructions" yaml:"instructions"`
	Cautions     []string `json:"cautions,omitempty" yaml:"cautions,omitempty"`
	Steps        []Step   `json:"steps" yaml:"steps"`
}

// NextVersion plans the start of work on the release after v.
//
// v is tagged and merged into its parent branch, and the next version is
// branched off that parent. When v is a hotfix, it must additionally be
// merged into the monthly branch above its release branch.
func NextVersion(v revision.Revision) Plan {
	parent := v.ParentBranch(false)
	next := v.NextVersion()

	p := Plan{
		Mode:   model.ModeNextVersion,
		Input:  v,
		Target: next,
	}

	p.Steps = append(p.Steps,
		Step{Action: ActionTag, Source: v.String()},
		Step{Action: ActionMerge, Source: v.String(), Target: parent},
	)

	if v.IsHotfix() {
		grandparent := revision.Parse(parent).ParentBranch(false)
		p.Steps = append(p.Steps, Step{Action: ActionMerge, Source: v.String(), Target: grandparent, Descendants: true})
		p.Instructions = []string{fmt.Sprintf(
			"Before starting coding work on %s, tag %s and merge it to %s, and to %s (and its descendants), then branch off %s to %s",
			next, v, parent, grandparent, parent, next)}
		p.Cautions = []string{fmt.Sprintf(
			"(But be mindful that %s might already exist, and it could be something else, or it could even be a different month!)",
			next)}
	} else {
		p.Instructions = []string{fmt.Sprintf(
			"Before starting coding work on %s, tag %s and merge it to %s, then branch off %s to %s",
			next, v, parent, parent, next)}
	}

	p.Steps = append(p.Steps, Step{Action: ActionBranch, Source: parent, Target: next.String()})
	return p
}

// Hotfix plans the start of work on the next hotfix of v's release. The
// hotfix branch always forks from the release branch, even when v itself
// is not a hotfix.
func Hotfix(v revision.Revision) Plan {
	parent := v.ParentBranch(true)
	hotfix := v.Hotfix()

	return Plan{
		Mode:   model.ModeHotfix,
		Input:  v,
		Target: hotfix,
		Instructions: []string{fmt.Sprintf(
			"Before starting work on %s, branch off %s to %s", hotfix, parent, hotfix)},
		Steps: []Step{
			{Action: ActionBranch, Source: parent, Target: hotfix.String()},
		},
	}
}

// MonthStart plans the rollover from v's month into the next one.
// mainBranch is the integration branch months are merged through.
func MonthStart(v revision.Revision, mainBranch string) Plan {
	month := v.CurrentMonth()
	start := v.MonthStart()

	return Plan{
		Mode:   model.ModeMonthStart,
		Input:  v,
		Target: start,
		Instructions: []string{fmt.Sprintf(
			"Merge outstanding branches for the month into %s, and %s to %s and from %s to %s",
			month, month, mainBranch, mainBranch, start)},
		Steps: []Step{
			{Action: ActionMerge, Source: OutstandingBranches, Target: month},
			{Action: ActionMerge, Source: month, Target: mainBranch},
			{Action: ActionMerge, Source: mainBranch, Target: start.String()},
		},
	}
}
