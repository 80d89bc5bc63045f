// Package prompts holds the instructions sent to the appraisal model.
// They live in analysis.json, embedded at compile time, so wording can change without code edits.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Keys in analysis.json.
const (
	KeyAppraiseBatch = "appraise-batch"
	KeyListingHeader = "listing-header"
)

//go:embed analysis.json
var analysisFile []byte

var load = sync.OnceValues(func() (map[string]string, error) {
	var prompts map[string]string
	if err := json.Unmarshal(analysisFile, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse analysis prompts: %w", err)
	}
	return prompts, nil
})

// Get returns the prompt stored under key.
func Get(key string) (string, error) {
	prompts, err := load()
	if err != nil {
		return "", err
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// MustGet is Get for prompts the binary cannot run without.
func MustGet(key string) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Validate reports whether every prompt the appraisal request needs is present.
func Validate() error {
	prompts, err := load()
	if err != nil {
		return err
	}
	return checkKeys(prompts, KeyAppraiseBatch, KeyListingHeader)
}

func checkKeys(prompts map[string]string, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(prompts[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing prompts: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Format fills {{.Name}} placeholders from data. Unknown placeholders are left as is.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// BatchInstruction is the leading instruction for a batch of count listings.
func BatchInstruction(count int) string {
	return Format(MustGet(KeyAppraiseBatch), map[string]string{"Count": strconv.Itoa(count)})
}

// ListingHeader introduces one listing's JSON in the request.
func ListingHeader(listingJSON string) string {
	return Format(MustGet(KeyListingHeader), map[string]string{"ListingJSON": listingJSON})
}
