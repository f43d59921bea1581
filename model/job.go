package model // import "github.com/storyhouse/storyhouse/model"

const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

const JobTypeRegisterIP = "REGISTER_IP"

type Job struct {
	ID         int
	BookID     string
	ChapterKey string
	Type       string
	Status     string
	Detail     string
	Item       interface{}
}

// RegistrationPayload is carried in Job.Item for REGISTER_IP jobs.
type RegistrationPayload struct {
	AuthorAddress string
	Slug          string
	Tier          LicenseTier
	Chapter       *Chapter
}

type JobList []Job

func (j JobList) Len() int {
	return len(j)
}
