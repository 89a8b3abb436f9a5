// Package remote implements the submit/poll/fetch protocol of the remote
// simulator service.
//
// A job is posted as a form-encoded payload to post_job/, its status is
// polled on get_job_status/ until DONE and the per-shot memory is fetched
// from get_job_result/. Nothing is retried; the poll loop waits for an
// unfinished job, it does not repeat failed calls.
package remote
