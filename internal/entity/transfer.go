package entity

// SubmissionState is where a payment attempt sits in the
// scan -> validate -> submit flow. Succeeded and Failed are outcomes: they
// settle back to Idle immediately and are reported on the submit response
// and as the session's last result. The resting states a session can be
// observed in are Idle, Scanned, Ready and Submitting.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "IDLE"
	SubmissionScanned    SubmissionState = "SCANNED"
	SubmissionReady      SubmissionState = "READY"
	SubmissionSubmitting SubmissionState = "SUBMITTING"
	SubmissionSucceeded  SubmissionState = "SUCCEEDED"
	SubmissionFailed     SubmissionState = "FAILED"
)
