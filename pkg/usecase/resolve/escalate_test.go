package resolve_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pika/pkg/usecase/resolve"
)

func TestNeedsEscalation(t *testing.T) {
	cases := []struct {
		text   string
		expect bool
	}{
		{"Please contact support immediately.", true},
		{"I will escalate this to our team.", true},
		{"Your account may have been HACKED.", true},
		{"This looks like a fraud attempt.", true},
		{"I understand you are very upset about this.", true},
		{"The item arrived damaged, I am sorry.", true},
		{"You should speak to human staff for this.", true},
		{"Your order ships in 5 days.", false},
		{"Our refund policy allows returns within 30 days.", false},
		{"", false},
		{"Thanks for shopping with us!", false},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			gt.Equal(t, resolve.NeedsEscalation(tc.text), tc.expect)
		})
	}
}

func TestNeedsEscalationCaseInsensitive(t *testing.T) {
	gt.True(t, resolve.NeedsEscalation("CONTACT SUPPORT"))
	gt.True(t, resolve.NeedsEscalation("Contact Support"))
}

func TestNeedsEscalationSubstringMatch(t *testing.T) {
	// Trigger embedded inside a longer sentence still matches
	gt.True(t, resolve.NeedsEscalation("we found suspicious activity on the account"))
}
