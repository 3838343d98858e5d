package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes begrenzt die Größe einer Antwort.
const maxBodyBytes = 4 << 20

// userAgentTransport fügt jeder Anfrage einen User-Agent-Header hinzu.
type userAgentTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.UserAgent)
	return t.Transport.RoundTrip(req)
}

// NewHTTPClient erstellt den Client, den sich alle Quellen teilen.
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &userAgentTransport{
			Transport: http.DefaultTransport,
			UserAgent: userAgent,
		},
	}
}

// Requester führt genau einen Abrufversuch pro Aufruf aus, gedrosselt pro Quelle.
type Requester struct {
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewRequester erstellt einen Requester; ratePerSecond <= 0 schaltet die Drosselung ab.
func NewRequester(client *http.Client, ratePerSecond float64) *Requester {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return &Requester{Client: client, Limiter: limiter}
}

// Get lädt eine URL und liefert den Body. Nicht-2xx-Antworten sind Fehler.
func (r *Requester) Get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if err := r.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
