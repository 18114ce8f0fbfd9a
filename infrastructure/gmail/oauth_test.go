package gmail

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := saveToken(file, token); err != nil {
		t.Fatalf("saveToken() error = %v", err)
	}
	got, err := loadToken(file)
	if err != nil {
		t.Fatalf("loadToken() error = %v", err)
	}
	if got.AccessToken != "access" || got.RefreshToken != "refresh" || !got.Expiry.Equal(token.Expiry) {
		t.Errorf("loadToken() = %+v, want %+v", got, token)
	}
}

func TestLoadToken_Missing(t *testing.T) {
	if _, err := loadToken(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("loadToken() expected error for a missing file")
	}
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantCode string
		wantErr  bool
		wantNone bool
	}{
		{name: "code present", url: "/callback?code=abc&state=s1", wantCode: "abc"},
		{name: "code missing", url: "/callback?error=access_denied&state=s1", wantErr: true},
		{name: "wrong state", url: "/callback?code=abc&state=forged", wantNone: true},
		{name: "no state", url: "/callback?code=abc", wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeChan := make(chan string, 1)
			errChan := make(chan error, 1)
			rec := httptest.NewRecorder()

			callbackHandler("s1", codeChan, errChan).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if tt.wantNone {
				if rec.Code != http.StatusBadRequest {
					t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
				}
				select {
				case code := <-codeChan:
					t.Errorf("forged callback delivered code %q", code)
				case err := <-errChan:
					t.Errorf("forged callback delivered error %v", err)
				default:
				}
				return
			}

			select {
			case code := <-codeChan:
				if tt.wantErr || code != tt.wantCode {
					t.Errorf("got code %q, want %q (wantErr %v)", code, tt.wantCode, tt.wantErr)
				}
			case err := <-errChan:
				if !tt.wantErr {
					t.Errorf("unexpected error: %v", err)
				}
			default:
				t.Error("handler produced neither a code nor an error")
			}
		})
	}
}

func TestCallbackHandler_RepeatedHitsDoNotBlock(t *testing.T) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)
	handler := callbackHandler("s1", codeChan, errChan)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, url := range []string{
			"/callback?code=first&state=s1",
			"/callback?code=second&state=s1",
			"/callback?state=s1",
			"/callback?state=s1",
		} {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, url, nil))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback handler blocked on a repeated request")
	}

	if code := <-codeChan; code != "first" {
		t.Errorf("code = %q, want the first one delivered", code)
	}
}

func TestNewState(t *testing.T) {
	a, err := newState()
	if err != nil {
		t.Fatalf("newState() error = %v", err)
	}
	b, err := newState()
	if err != nil {
		t.Fatalf("newState() error = %v", err)
	}
	if len(a) != 32 || a == b {
		t.Errorf("newState() = %q, %q; want two distinct 32 character tokens", a, b)
	}
}
