package realtime

// Live event names pushed over a user's private channel. The persisted
// Notification record is the durable fallback; these are latency hints only.
const (
	EventApplicantNew       = "applicant:new"
	EventApplicantWithdrawn = "applicant:withdrawn"
	EventApplicationUpdated = "application:updated"
	EventNotificationNew    = "notification:new"
	EventRosterUpdated      = "roster:updated"
	EventScoutingNew        = "scouting:new"
)

type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
