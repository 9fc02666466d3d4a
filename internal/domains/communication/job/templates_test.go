package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editorial-backend/internal/domains/communication/model"
	"editorial-backend/internal/infrastructure/email"
)

func TestBuildMessage_EveryTypeHasTemplate(t *testing.T) {
	for _, typ := range model.AllTypes {
		msg, err := BuildMessage(model.Notification{Type: typ, RecipientEmail: "a@example.org"}, "https://x.test")
		require.NoError(t, err, typ)
		assert.NotEmpty(t, msg.Subject, typ)
	}
}

func TestBuildMessage_EditLinkUsesToken(t *testing.T) {
	expires := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	msg, err := BuildMessage(model.Notification{
		Type:          model.TypeExpiringSoon,
		RecipientName: "Ada",
		Data: model.NotificationData{
			SubmissionTitle: "On Bees",
			Token:           "tok",
			ExpiresAt:       &expires,
		},
	}, "https://journal.example.org/")

	require.NoError(t, err)
	assert.Equal(t, "https://journal.example.org/submissions/tok", msg.ButtonURL)
	assert.Equal(t, "Hello Ada,", msg.Greeting)
	assert.Contains(t, msg.Meta, emailMeta("Editable until", "March 1, 2026"))
}

func TestBuildMessage_AdminAlertCountsRows(t *testing.T) {
	msg, err := BuildMessage(model.Notification{
		Type: model.TypeAdminExpirationAlert,
		Data: model.NotificationData{
			ExpiredCount: 2,
			Items:        []model.SubmissionRef{{Title: "A"}, {Title: "B"}},
		},
	}, "https://x.test")

	require.NoError(t, err)
	assert.Equal(t, "2 submissions expired", msg.Subject)
	assert.Len(t, msg.Meta, 2)
}

func emailMeta(label, value string) email.MetaItem {
	return email.MetaItem{Label: label, Value: value}
}
