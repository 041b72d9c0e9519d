package enums

// MergeState is the lifecycle of one anonymous-to-account basket merge.
type MergeState string

const (
	MergeStateIdle    MergeState = "idle"
	MergeStateMerging MergeState = "merging"
	MergeStateDone    MergeState = "done"
	MergeStateFailed  MergeState = "failed"
)

// String implements fmt.Stringer.
func (s MergeState) String() string {
	return string(s)
}
