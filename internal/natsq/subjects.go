package natsq

import "fmt"

// Subject hierarchy for the cronbeat-to-NATS mapping.
//
//	cronbeat.queue.{name}.jobs -- job instructions per queue
const (
	// StreamName is the JetStream stream holding all job instructions.
	StreamName    = "CRONBEAT"
	SubjectPrefix = "cronbeat"

	// BucketClaims is the KV bucket holding claim records.
	BucketClaims = "cronbeat-claims"

	// BucketSchedules is the KV bucket holding schedule epochs: the instant
	// each schedule name was first registered anywhere in the fleet.
	BucketSchedules = "cronbeat-schedules"
)

// QueueJobsSubject returns the subject instructions for a queue are
// published to. Example: cronbeat.queue.default.jobs
func QueueJobsSubject(queue string) string {
	return fmt.Sprintf("%s.queue.%s.jobs", SubjectPrefix, queue)
}

// QueueAllSubject returns the wildcard subject covering every queue. Used
// for the stream subject filter.
func QueueAllSubject() string {
	return fmt.Sprintf("%s.queue.>", SubjectPrefix)
}
