package domain

const (
	EventNameChallengeStarted  = "challenge.started"
	EventNameChallengeFinished = "challenge.finished"
)

type EventChallengeStarted struct {
	UserID string
	Lang   string
	// Words is the number of items served, Novel how many of them the user
	// had not been shown before.
	Words int
	Novel int
}

func (EventChallengeStarted) Name() string { return EventNameChallengeStarted }

type EventChallengeFinished struct {
	UserID    string
	Correct   int32
	Incorrect int32
}

func (EventChallengeFinished) Name() string { return EventNameChallengeFinished }
