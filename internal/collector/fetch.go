package collector

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// Reddit listings are small; anything past this is not a response we want.
const maxBodyBytes = 4 << 20

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeNotFound
	outcomeStatus
	outcomeTransport
)

// fetchResult is the tagged result of one GET: Success(body), NotFound,
// OtherStatus(status) or TransportError(err).
type fetchResult struct {
	kind   outcome
	status int
	body   []byte
	err    error
}

func (pc *PublicClient) get(ctx context.Context, url string, followRedirects bool) fetchResult {
	if err := pc.limiter.Wait(ctx); err != nil {
		return fetchResult{kind: outcomeTransport, err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, pc.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetchResult{kind: outcomeTransport, err: err}
	}
	req.Header.Set("User-Agent", pc.userAgent)
	req.Header.Set("Accept", "application/json")

	client := pc.httpClient
	if !followRedirects {
		client = pc.noRedirect
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Debug("reddit request failed", "url", url, "err", err)
		return fetchResult{kind: outcomeTransport, err: err}
	}
	defer resp.Body.Close()

	slog.Debug("reddit response", "url", url, "status", resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fetchResult{kind: outcomeTransport, status: resp.StatusCode, err: err}
		}
		return fetchResult{kind: outcomeSuccess, status: resp.StatusCode, body: body}
	case http.StatusNotFound:
		return fetchResult{kind: outcomeNotFound, status: resp.StatusCode}
	default:
		return fetchResult{kind: outcomeStatus, status: resp.StatusCode}
	}
}
