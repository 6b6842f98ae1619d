package auth

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// runInteractiveFlow performs the loopback OAuth2 code exchange: it opens
// a listener on an ephemeral port, directs the user's browser to the
// consent page, and waits for the authorization server to redirect back
// with a code.
func (m *Manager) runInteractiveFlow(ctx context.Context) (*Credential, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("open callback listener: %w", err)
	}
	defer ln.Close()

	// The redirect URL must match the ephemeral port we actually got.
	cfg := *m.oauth
	cfg.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", callbackHandler(state, codeCh, errCh))

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	log.Printf("auth: open this URL in a browser to authorize:\n%s", authURL)
	openBrowser(authURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	log.Printf("auth: authorization complete")
	return fromToken(tok, m.oauth.Scopes, ""), nil
}

// callbackHandler validates the redirect from the authorization server
// and reports the outcome. Only the first outcome is delivered; sends
// for repeated hits (browser retries, stale tabs) are dropped so the
// handler never blocks past server shutdown.
func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.HandlerFunc {
	fail := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			fail(fmt.Errorf("authorization callback state mismatch"))
			return
		}
		if errMsg := r.FormValue("error"); errMsg != "" {
			http.Error(w, "authorization denied", http.StatusForbidden)
			fail(fmt.Errorf("authorization denied: %s", errMsg))
			return
		}
		code := r.FormValue("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			fail(fmt.Errorf("authorization callback missing code"))
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this tab.")
		select {
		case codeCh <- code:
		default:
		}
	}
}

// openBrowser tries to open url in the default browser. Failure is fine;
// the URL is already printed for manual navigation.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("auth: could not open browser: %v", err)
	}
}
