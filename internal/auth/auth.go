// Package auth obtains the Canvas access token and builds the authenticated
// HTTP client every request goes through.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/term"
)

// TokenEnvVar names the environment variable checked for the access token.
const TokenEnvVar = "CANVAS_ACCESS_TOKEN"

const tokenInstructions = `CANVAS_ACCESS_TOKEN environment variable was not set.

To create your Canvas access token, log in to your Canvas website, e.g.
https://canvas.illinois.edu/. Select Account, then Settings, scroll down to
Approved Integrations and click New Access Token.

Linux tip: create a file canvastoken.sh containing
  export CANVAS_ACCESS_TOKEN='<your token>'
then "source canvastoken.sh" to set the variable in your shell.`

// ErrNoToken means neither the environment nor the prompt produced a token.
var ErrNoToken = errors.New("no access token provided")

// Token returns the bearer token from the environment, falling back to an
// interactive prompt. The prompt hides its input when stdin is a terminal.
func Token() (string, error) {
	if tok := os.Getenv(TokenEnvVar); tok != "" {
		return tok, nil
	}

	fmt.Fprintln(os.Stderr, tokenInstructions)
	fmt.Fprint(os.Stderr, "Your Canvas access token? ")

	var (
		tok string
		err error
	)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		var b []byte
		b, err = term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		tok = string(b)
	} else {
		// ReadString returns what it got alongside io.EOF on unterminated
		// input; keep it.
		tok, err = bufio.NewReader(os.Stdin).ReadString('\n')
	}
	if err != nil && tok == "" {
		return "", fmt.Errorf("reading access token: %w", err)
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// HTTPClient returns a client that attaches "Authorization: Bearer <token>"
// to every request for the life of the process.
func HTTPClient(ctx context.Context, token string) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}
