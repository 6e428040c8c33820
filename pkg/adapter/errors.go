package adapter

import "github.com/m-mizutani/goerr/v2"

// Error tags classifying failures of the external inference service. They
// are consumed inside Generate to pick a fallback reply and never escape
// past the Generator boundary.
var (
	ErrTagBadConfig   = goerr.NewTag("inference_bad_config")
	ErrTagThrottled   = goerr.NewTag("inference_throttled")
	ErrTagUnavailable = goerr.NewTag("inference_unavailable")
	ErrTagService     = goerr.NewTag("inference_service")
)
