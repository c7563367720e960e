// Package credentials stores the GitHub token in
// ~/.releaseBuilder/auth.json and asks for it when none is stored.
package credentials

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
)

const fileName = "auth.json"

// ErrNoToken is returned by Load when no token is stored
var ErrNoToken = stderrors.New("no stored token")

type authFile struct {
	Token string `json:"token"`
}

// Store is the token file in a directory
type Store struct {
	dir string
}

// NewStore returns the store in dir, usually $HOME/.releaseBuilder
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path is the token file's location
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Load returns the stored token, or ErrNoToken
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.Path())
	if stderrors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCredentials, "failed to read "+s.Path(), err)
	}

	var auth authFile
	if err := json.Unmarshal(data, &auth); err != nil {
		return "", errors.Wrap(errors.ErrCredentials, "malformed "+s.Path(), err)
	}
	if auth.Token == "" {
		return "", ErrNoToken
	}
	return auth.Token, nil
}

// Save writes token, creating the directory readable only by its owner
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrap(errors.ErrCredentials, "failed to create "+s.dir, err)
	}

	data, err := json.Marshal(authFile{Token: token})
	if err != nil {
		return errors.Wrap(errors.ErrCredentials, "failed to encode token", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCredentials, "failed to write "+s.Path(), err)
	}
	return nil
}

// TokenURL is the page that creates a token with repo scope, labelled with
// the creation time
func TokenURL(now time.Time) string {
	description := url.QueryEscape("ReleaseBuilder " + now.Format("2006-01-02 15:04:05"))
	return "https://www.github.com/settings/tokens/new?scopes=repo&description=" + description
}

// Prompter asks the user for a token
type Prompter struct {
	in  io.Reader
	out io.Writer
	now func() time.Time
}

// NewPrompter reads answers from in and writes questions to out. When in is
// a terminal the token is read without echo.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, now: time.Now}
}

// Resolve returns the stored token, or asks for one and offers to store it
func (p *Prompter) Resolve(store *Store) (string, error) {
	token, err := store.Load()
	if err == nil {
		return token, nil
	}
	if !stderrors.Is(err, ErrNoToken) {
		return "", err
	}

	reader := bufio.NewReader(p.in)

	fmt.Fprintf(p.out, "Please enter your github token (go to %s to generate one): ", TokenURL(p.now()))
	token, err = p.readSecret(reader)
	if err != nil {
		return "", errors.Wrap(errors.ErrCredentials, "failed to read token", err)
	}
	if token == "" {
		return "", errors.New(errors.ErrCredentials, "no token entered")
	}

	fmt.Fprintf(p.out, "Do you want to store the token in %s? [Yn] ", store.Path())
	answer, err := readLine(reader)
	if err != nil && !stderrors.Is(err, io.EOF) {
		return "", errors.Wrap(errors.ErrCredentials, "failed to read answer", err)
	}
	if confirmed(answer) {
		if err := store.Save(token); err != nil {
			return "", err
		}
	}
	return token, nil
}

func (p *Prompter) readSecret(reader *bufio.Reader) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		return strings.TrimSpace(string(secret)), err
	}

	line, err := readLine(reader)
	if stderrors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	return line, err
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	return strings.TrimSpace(line), err
}

// confirmed reads a [Yn] answer; empty means yes
func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}
