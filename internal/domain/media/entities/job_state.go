package entities

// JobState is the state of a DownloadJob
type JobState string

const (
	JobStarted     JobState = "started"
	JobDownloading JobState = "downloading"
	JobDownloaded  JobState = "downloaded"
	JobUploading   JobState = "uploading"
	JobDone        JobState = "done"
	JobFailed      JobState = "failed"
)

var jobTransitions = map[JobState][]JobState{
	JobStarted:     {JobDownloading, JobDownloaded, JobFailed},
	JobDownloading: {JobDownloaded, JobFailed},
	JobDownloaded:  {JobUploading, JobFailed},
	JobUploading:   {JobDone, JobFailed},
}

// CanTransition reports whether s -> to is a legal move.
// STARTED may jump to DOWNLOADED when the extractor never reports sizes.
func (s JobState) CanTransition(to JobState) bool {
	for _, next := range jobTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
