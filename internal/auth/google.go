package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KartikVerma96/paregrose/pkg/httpclient"
)

// DefaultTokenInfoURL is Google's ID token introspection endpoint.
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var validIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// ErrInvalidIDToken is returned for tokens Google rejects or that fail the
// audience, issuer, expiry or email checks.
var ErrInvalidIDToken = errors.New("invalid google id token")

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type tokenInfo struct {
	Iss           string `json:"iss"`
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Exp           string `json:"exp"`
}

// GoogleVerifier checks ID tokens against Google's tokeninfo endpoint through
// a circuit-breaking HTTP client.
type GoogleVerifier struct {
	client   *httpclient.Client
	endpoint string
	clientID string
	now      func() time.Time
}

func NewGoogleVerifier(client *httpclient.Client, endpoint, clientID string) *GoogleVerifier {
	if endpoint == "" {
		endpoint = DefaultTokenInfoURL
	}
	return &GoogleVerifier{client: client, endpoint: endpoint, clientID: clientID, now: time.Now}
}

// Verify returns the identity in idToken. Google answering 4xx means the
// token itself is bad and yields ErrInvalidIDToken; other failures are
// returned as-is.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}

	var info tokenInfo
	err := v.client.GetJSON(ctx, v.endpoint+"?id_token="+url.QueryEscape(idToken), &info)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusBadRequest) || httpclient.IsStatus(err, http.StatusUnauthorized) {
			return nil, ErrInvalidIDToken
		}
		return nil, fmt.Errorf("google tokeninfo: %w", err)
	}

	switch {
	case info.Aud != v.clientID:
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidIDToken)
	case !validIssuers[info.Iss]:
		return nil, fmt.Errorf("%w: issuer %q", ErrInvalidIDToken, info.Iss)
	case info.Sub == "" || info.Email == "":
		return nil, fmt.Errorf("%w: missing subject or email", ErrInvalidIDToken)
	case info.EmailVerified != "true":
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidIDToken)
	}
	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err == nil && v.now().Unix() >= exp {
		return nil, fmt.Errorf("%w: expired", ErrInvalidIDToken)
	}

	return &GoogleIdentity{
		Subject: info.Sub,
		Email:   strings.ToLower(info.Email),
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
