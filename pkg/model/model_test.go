package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pika/pkg/model"
)

func TestNewIDs(t *testing.T) {
	faqID := model.NewFAQID()
	gt.True(t, strings.HasPrefix(string(faqID), "faq-"))

	sessionID := model.NewSessionID()
	gt.True(t, strings.HasPrefix(string(sessionID), "sess-"))

	messageID := model.NewMessageID()
	gt.True(t, strings.HasPrefix(string(messageID), "msg-"))

	// IDs must not contain the UUID hyphens after the prefix
	gt.False(t, strings.Contains(strings.TrimPrefix(string(faqID), "faq-"), "-"))
}

func TestNewIDsUnique(t *testing.T) {
	seen := map[model.FAQID]bool{}
	for i := 0; i < 100; i++ {
		id := model.NewFAQID()
		gt.False(t, seen[id])
		seen[id] = true
	}
}

func TestRoleValidate(t *testing.T) {
	gt.NoError(t, model.RoleUser.Validate())
	gt.NoError(t, model.RoleAssistant.Validate())

	err := model.Role("system").Validate()
	gt.Error(t, err)
}
