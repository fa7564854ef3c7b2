// Package jobs defines the background jobs dispatched onto pkg/queue.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/vastra/pkg/mail"
	"github.com/shashiranjanraj/vastra/pkg/queue"
)

// WelcomeEmailJob sends the post-registration welcome mail.
// Dispatched by AuthService.Register; processed by the queue workers so the
// HTTP request never waits on SMTP.
type WelcomeEmailJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Handle delivers the mail. A missing MAIL_USER makes Send return an error,
// which the queue retries and eventually parks in the failed list.
func (j *WelcomeEmailJob) Handle() error {
	body := fmt.Sprintf(
		"<h1>Welcome, %s!</h1><p>Your Vastra account is ready. List your first product any time.</p>",
		j.Name,
	)
	return mail.To(j.Email).
		Subject("Welcome to Vastra!").
		Body(body).
		Send()
}

// RegisterJobs registers every job type with the queue so workers can
// deserialize them by name. Call once at boot.
func RegisterJobs() {
	queue.Register("*jobs.WelcomeEmailJob", func() queue.Job { return &WelcomeEmailJob{} })
}
