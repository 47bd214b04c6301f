// Package httpjson sends JSON requests and decodes JSON responses.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ErrorFunc turns a non-2xx answer into an error.
type ErrorFunc func(statusCode int, body []byte) error

// Do sends reqData, when not nil, as the JSON body of a request to path
// below base and decodes a 2xx response into respData. Other status codes go
// to onError.
func Do(ctx context.Context, client *http.Client, base url.URL, method, path string, reqData, respData any, onError ErrorFunc) error {
	var body io.Reader
	if reqData != nil {
		reqDataBytes, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		body = bytes.NewReader(reqDataBytes)
	}

	reqURL := base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return err
	}

	if reqData != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	resp, err := client.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return onError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
