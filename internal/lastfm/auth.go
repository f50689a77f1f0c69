package lastfm

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

// AuthCallbackPort is the port for the local desktop-auth callback.
const AuthCallbackPort = 9847

// AuthServer receives the Last.fm redirect after the user authorizes.
type AuthServer struct {
	server    *http.Server
	tokenChan chan string
	done      chan struct{}
}

// StartAuthServer starts the local callback server. The returned
// server's TokenChan yields the token once authorization completes.
func StartAuthServer() (*AuthServer, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", AuthCallbackPort))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", AuthCallbackPort, err)
	}

	as := &AuthServer{
		tokenChan: make(chan string, 1),
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")

		w.Header().Set("Content-Type", "text/html")
		if token != "" {
			fmt.Fprint(w, "<html><body><h1>Authorization successful</h1><p>You can close this window and return to muse.</p></body></html>")
		} else {
			fmt.Fprint(w, "<html><body><h1>Authorization failed</h1><p>No token received. Please try again.</p></body></html>")
		}

		select {
		case as.tokenChan <- token:
		default:
		}
	})

	as.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = as.server.Serve(listener)
		close(as.done)
	}()

	return as, nil
}

func (as *AuthServer) TokenChan() <-chan string { return as.tokenChan }

// Shutdown stops the callback server.
func (as *AuthServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = as.server.Shutdown(ctx)
	<-as.done
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
