package common

import (
	"encoding/json"
	"io"
	"time"
)

// CIResult is the single JSON document a tool prints in --ci mode.
type CIResult struct {
	OK       bool     `json:"ok"`
	Title    string   `json:"title"`
	Details  []string `json:"details,omitempty"`
	Error    string   `json:"error,omitempty"`
	Finished string   `json:"finished_at"`
}

func NewCIResult(ok bool, title string, details []string, err error) CIResult {
	result := CIResult{OK: ok, Title: title, Details: details, Finished: time.Now().UTC().Format(time.RFC3339)}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func WriteCIResult(w io.Writer, result CIResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
