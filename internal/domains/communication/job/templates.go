package job

import (
	"fmt"
	"strings"
	"time"

	"editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/infrastructure/email"
)

const dateLayout = "January 2, 2006"

// BuildMessage maps a notification onto the email layout. Each type has exactly one template.
func BuildMessage(n model.Notification, baseURL string) (email.Message, error) {
	d := n.Data
	baseURL = strings.TrimRight(baseURL, "/")
	greeting := greetingFor(n.RecipientName)

	meta := []email.MetaItem{{Label: "Submission", Value: d.SubmissionTitle}}
	if d.ExpiresAt != nil {
		meta = append(meta, email.MetaItem{Label: "Editable until", Value: formatDate(*d.ExpiresAt)})
	}
	editURL := ""
	if d.Token != "" {
		editURL = baseURL + "/submissions/" + d.Token
	}

	switch n.Type {
	case model.TypeTokenIssued:
		return email.Message{
			Subject:  "Your submission link",
			Greeting: greeting,
			Paragraphs: []string{
				"Thank you for starting a submission. Use the private link below to keep editing your draft and to submit it for review.",
				"Keep this link safe: anyone with it can edit your submission.",
			},
			Meta:       meta,
			ButtonText: "Continue editing",
			ButtonURL:  editURL,
		}, nil

	case model.TypeTokenResent:
		return email.Message{
			Subject:    "Your submission links",
			Greeting:   greeting,
			Paragraphs: []string{"You asked us to resend the links to your editable submissions."},
			Meta:       itemsMeta(d.Items, baseURL),
			Footer:     "If you did not request this email you can ignore it.",
		}, nil

	case model.TypeTokenRegenerated:
		return email.Message{
			Subject:  "A new link for your submission",
			Greeting: greeting,
			Paragraphs: []string{
				"The editorial team issued a new private link for your submission. Previous links no longer work.",
			},
			Meta:       meta,
			ButtonText: "Open submission",
			ButtonURL:  editURL,
		}, nil

	case model.TypeExpiringSoon:
		return email.Message{
			Subject:  "Your submission expires soon",
			Greeting: greeting,
			Paragraphs: []string{
				"Your submission has not been sent for review yet and will expire soon. After it expires it can no longer be edited.",
			},
			Meta:       meta,
			ButtonText: "Finish your submission",
			ButtonURL:  editURL,
		}, nil

	case model.TypeExpired:
		return email.Message{
			Subject:  "Your submission has expired",
			Greeting: greeting,
			Paragraphs: []string{
				"Your submission was not sent for review before its editing window closed and has expired.",
				"Contact the editorial team if you would like it reactivated.",
			},
			Meta: meta,
		}, nil

	case model.TypeFeedbackPosted:
		return email.Message{
			Subject:    "New feedback on your submission",
			Greeting:   greeting,
			Paragraphs: []string{"The editorial team left feedback on your submission:", d.FeedbackContent},
			Meta:       meta,
			ButtonText: "View feedback",
			ButtonURL:  editURL,
		}, nil

	case model.TypeApproved:
		return email.Message{
			Subject:    "Your submission was approved",
			Greeting:   greeting,
			Paragraphs: []string{"Good news: your submission was approved and is queued for publication.", d.Notes},
			Meta:       meta,
		}, nil

	case model.TypeRejected:
		return email.Message{
			Subject:    "Decision on your submission",
			Greeting:   greeting,
			Paragraphs: []string{"After review, the editorial team decided not to publish your submission.", d.RejectionReason, d.Notes},
			Meta:       meta,
		}, nil

	case model.TypeChangesRequested:
		return email.Message{
			Subject:    "Changes requested on your submission",
			Greeting:   greeting,
			Paragraphs: []string{"The editorial team asked for changes before your submission can move forward.", d.Notes},
			Meta:       meta,
			ButtonText: "Edit submission",
			ButtonURL:  editURL,
		}, nil

	case model.TypePublished:
		articleURL := ""
		if d.ArticleSlug != "" {
			articleURL = baseURL + "/articles/" + d.ArticleSlug
		}
		return email.Message{
			Subject:    "Your article is live",
			Greeting:   greeting,
			Paragraphs: []string{"Your submission has been published."},
			Meta:       []email.MetaItem{{Label: "Article", Value: d.SubmissionTitle}},
			ButtonText: "Read the article",
			ButtonURL:  articleURL,
		}, nil

	case model.TypeCustomReminder:
		return email.Message{
			Subject:    "A message about your submission",
			Greeting:   greeting,
			Paragraphs: []string{d.Message},
			Meta:       meta,
			ButtonText: "Open submission",
			ButtonURL:  editURL,
		}, nil

	case model.TypeAdminExpirationAlert:
		return email.Message{
			Subject:  fmt.Sprintf("%d submissions expired", d.ExpiredCount),
			Greeting: greeting,
			Paragraphs: []string{
				fmt.Sprintf("The expiry sweep moved %d submissions to EXPIRED.", d.ExpiredCount),
			},
			Meta:       itemsMeta(d.Items, ""),
			ButtonText: "Open review queue",
			ButtonURL:  baseURL + "/admin/submissions?status=EXPIRED",
		}, nil
	}

	return email.Message{}, fmt.Errorf("no template for communication type %q", n.Type)
}

func greetingFor(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "Hello,"
	}
	return "Hello " + name + ","
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// itemsMeta lists one row per submission. With a base URL the value is the edit link.
func itemsMeta(items []model.SubmissionRef, baseURL string) []email.MetaItem {
	meta := make([]email.MetaItem, 0, len(items))
	for _, it := range items {
		value := ""
		switch {
		case baseURL != "" && it.Token != "":
			value = baseURL + "/submissions/" + it.Token
		case it.ExpiresAt != nil:
			value = "expired " + formatDate(*it.ExpiresAt)
		}
		meta = append(meta, email.MetaItem{Label: it.Title, Value: value})
	}
	return meta
}
