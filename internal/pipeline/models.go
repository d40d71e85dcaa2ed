package pipeline

import (
	"fmt"
	"time"
)

// Stage identifies how far a recording has progressed through the
// minutes pipeline. Stages only ever move forward; reprocessing an
// earlier step refreshes the record's data without demoting it.
type Stage string

const (
	StageUploaded         Stage = "uploaded"
	StageTranscribed      Stage = "transcribed"
	StageEdited           Stage = "edited"
	StageActionsExtracted Stage = "actions_extracted"
	StageMinutesGenerated Stage = "minutes_generated"
)

var stageRank = map[Stage]int{
	StageUploaded:         1,
	StageTranscribed:      2,
	StageEdited:           3,
	StageActionsExtracted: 4,
	StageMinutesGenerated: 5,
}

// AllStages lists every stage in pipeline order.
func AllStages() []Stage {
	return []Stage{
		StageUploaded,
		StageTranscribed,
		StageEdited,
		StageActionsExtracted,
		StageMinutesGenerated,
	}
}

// ParseStage converts a stored stage string back into a Stage.
func ParseStage(raw string) (Stage, error) {
	stage := Stage(raw)
	if _, ok := stageRank[stage]; !ok {
		return "", fmt.Errorf("unknown stage %q", raw)
	}
	return stage, nil
}

// Rank returns the stage's position in the pipeline, or 0 when unknown.
func (s Stage) Rank() int {
	return stageRank[s]
}

// AtLeast reports whether the stage has reached or passed other.
func (s Stage) AtLeast(other Stage) bool {
	return s.Rank() >= other.Rank()
}

func (s Stage) String() string {
	return string(s)
}

// Record tracks one uploaded recording and every artifact derived from
// it. Stage is a high-water mark: re-running a step replaces that
// step's data but never lowers the stage.
type Record struct {
	ID               string
	Filename         string
	OriginalName     string
	DisplayTitle     string
	AudioPath        string
	Stage            Stage
	RawTranscript    string
	EditedTranscript string
	ActionItems      []string
	MinutesPath      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Transcript returns the edited transcript when one exists, otherwise
// the raw transcript. Downstream steps always consume this view.
func (r *Record) Transcript() string {
	if r.EditedTranscript != "" {
		return r.EditedTranscript
	}
	return r.RawTranscript
}

// HasTranscript reports whether any transcript text is available.
func (r *Record) HasTranscript() bool {
	return r.RawTranscript != "" || r.EditedTranscript != ""
}

// Advance raises the record's stage to target if target is further
// along. Moving backwards is a no-op.
func (r *Record) Advance(target Stage) {
	if target.Rank() > r.Stage.Rank() {
		r.Stage = target
	}
}

// Clone returns a deep copy so callers can mutate records without
// racing the store's canonical copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	if r.ActionItems != nil {
		// make keeps the nil/empty distinction that append would lose.
		clone.ActionItems = make([]string, len(r.ActionItems))
		copy(clone.ActionItems, r.ActionItems)
	}
	return &clone
}
