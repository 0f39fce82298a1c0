package gateway

import (
	"fmt"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"
)

var (
	detectorOnce sync.Once
	detector     *detect.Detector
	detectorErr  error
)

// Redact removes detected secrets from a prompt before it leaves the
// process. Detector construction is expensive, so one default-config
// instance is shared; a construction failure fails the call rather than
// sending the prompt unredacted.
func Redact(prompt string) (string, error) {
	detectorOnce.Do(func() {
		detector, detectorErr = detect.NewDetectorDefaultConfig()
	})
	if detectorErr != nil {
		return "", fmt.Errorf("secret detector init failed: %w", detectorErr)
	}

	findings := detector.DetectString(prompt)
	if len(findings) == 0 {
		return prompt, nil
	}

	out := prompt
	for _, f := range findings {
		if f.Secret == "" {
			continue
		}
		out = strings.ReplaceAll(out, f.Secret, "REDACTED")
	}
	return out, nil
}
