package models

import "time"

type BlotterStatus string

const (
	StatusPending       BlotterStatus = "Pending"
	StatusUnderReview   BlotterStatus = "Under Review"
	StatusInvestigating BlotterStatus = "Investigating"
	StatusResolved      BlotterStatus = "Resolved"
	StatusClosed        BlotterStatus = "Closed"
)

// statusRank orders the review lifecycle. Resolved and Closed share the
// terminal position for timeline purposes.
var statusRank = map[BlotterStatus]int{
	StatusPending:       0,
	StatusUnderReview:   1,
	StatusInvestigating: 2,
	StatusResolved:      3,
	StatusClosed:        3,
}

func (s BlotterStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

func (s BlotterStatus) Terminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// CanTransitionTo reports whether next is a legal move from s. The
// lifecycle only advances forward: a report cannot leave a terminal state
// and cannot move back to an earlier one. Skipping ahead is allowed so a
// report can be closed outright.
func (s BlotterStatus) CanTransitionTo(next BlotterStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	return statusRank[next] > statusRank[s]
}

type IncidentType string

const (
	IncidentTheft   IncidentType = "Theft"
	IncidentRobbery IncidentType = "Robbery"
	IncidentAssault IncidentType = "Assault"
	IncidentOther   IncidentType = "Other"
)

func (t IncidentType) Valid() bool {
	switch t {
	case IncidentTheft, IncidentRobbery, IncidentAssault, IncidentOther:
		return true
	}
	return false
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Incident struct {
	Type        IncidentType `json:"incident_type"`
	Date        time.Time    `json:"date"`
	Location    *Location    `json:"location,omitempty"`
	Description string       `json:"description"`
}

type Attachment struct {
	Type      string    `json:"attachment_type"`
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type Blotter struct {
	ID                string
	Number            string // external BLT- reference
	UserID            string
	Incident          Incident
	Attachments       []Attachment
	AssignedOfficerID string
	StationID         string
	Status            BlotterStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Milestone is one entry of the tracking timeline shown to the reporter.
type Milestone struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Color     string `json:"color"`
}

const waitingPlaceholder = "Waiting..."

// Timeline projects the current status onto the four fixed tracking
// milestones. It is a pure function of (Status, CreatedAt, UpdatedAt):
// the same blotter state always produces the same output.
func (b Blotter) Timeline() []Milestone {
	rank := statusRank[b.Status]
	updated := formatMilestoneDate(b.UpdatedAt)

	milestone := func(title, color string, threshold int) Milestone {
		m := Milestone{Title: title, Color: color, Date: waitingPlaceholder}
		if rank >= threshold {
			m.Completed = true
			m.Date = updated
		}
		return m
	}

	submitted := Milestone{
		Title:     "Report Submitted",
		Date:      formatMilestoneDate(b.CreatedAt),
		Completed: true,
		Color:     "green",
	}

	return []Milestone{
		submitted,
		milestone("Officer Assigned", "blue", statusRank[StatusUnderReview]),
		milestone("Investigation Ongoing", "orange", statusRank[StatusInvestigating]),
		milestone("Case Resolved", "red", statusRank[StatusResolved]),
	}
}

func formatMilestoneDate(t time.Time) string {
	if t.IsZero() {
		return waitingPlaceholder
	}
	return t.Format("Jan 2, 03:04 PM")
}
