package model

import "time"

type FAQID string

// NewFAQID generates a new unique FAQID
func NewFAQID() FAQID {
	return FAQID("faq-" + shortID())
}

// FAQ is a cached question and answer pair. Question is fixed at creation
// and never edited afterwards; Answer may stay empty until a generated
// reply is attached to the entry.
type FAQ struct {
	ID        FAQID
	Question  string
	Answer    string
	CreatedAt time.Time
}
