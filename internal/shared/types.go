package shared

// Asynq task types
const (
	TypeSendCommunication = "communication:send_email"
	TypeExpireSubmissions = "submission:expire_sweep"
)

// Asynq queues and their weights on the worker.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// QueueWeights is the priority map given to the asynq server.
var QueueWeights = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// AdminContact is the subset of an admin account that notifications need.
// It lives here to keep the communication and admin packages from importing each other.
type AdminContact struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
}
