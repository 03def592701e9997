package paystack

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// readJSON into struct
func readJSON(in io.ReadCloser, v interface{}) error {
	body, err := io.ReadAll(in)
	_ = in.Close()
	if err != nil {
		return errors.Wrap(err, "io read")
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "json decode")
	}

	return nil
}

// readString drains the body, best effort
func readString(in io.ReadCloser) string {
	body, err := io.ReadAll(in)
	_ = in.Close()
	if err != nil {
		return ""
	}

	return string(body)
}
