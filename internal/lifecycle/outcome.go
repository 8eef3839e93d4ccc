package lifecycle

// Reward carries the XP/streak deltas awarded for a completed verification.
// The aggregate user state is owned by the collaborator; this core only
// forwards the values to the HUD.
type Reward struct {
	XPGained      int
	TotalUserXP   int
	CurrentStreak int
}

// Outcome is the interpreted result of one verification attempt. The
// variants are sealed so every consumer handles the full set in a type
// switch instead of branching on a raw status string.
type Outcome interface {
	outcome()
}

// Completed means the proof passed. Terminal for the session.
type Completed struct {
	Reward Reward
}

// Partial means the proof was partially accepted; the session stays open
// for resubmission.
type Partial struct {
	Reason string
}

// Retry means the proof was rejected; the session stays open and the reason
// is kept on the task for later display.
type Retry struct {
	Reason string
}

// Locked is the global lockdown escalation. Terminal for the session; the
// reason becomes the lockdown banner text.
type Locked struct {
	Reason string
}

func (Completed) outcome() {}
func (Partial) outcome()   {}
func (Retry) outcome()     {}
func (Locked) outcome()    {}
