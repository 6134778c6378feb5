package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSecret prints prompt to w and reads a value from the terminal without echo.
func GetSecret(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	defer clear(secret)
	return strings.TrimSpace(string(secret)), nil
}

// ensureCredentials asks for missing Kling keys when stdin is a terminal.
func (a *App) ensureCredentials() error {
	if a.config.KlingAccessKey != "" && a.config.KlingSecretKey != "" {
		return nil
	}
	if !isTerminal() {
		return errors.New("kling access and secret keys are not configured (set KLING_ACCESS_KEY and KLING_SECRET_KEY)")
	}

	if a.config.KlingAccessKey == "" {
		v, err := GetSimpleText(a.reader, "Kling access key", a.out)
		if err != nil {
			return err
		}
		a.config.KlingAccessKey = v
	}
	if a.config.KlingSecretKey == "" {
		v, err := GetSecret("Kling secret key", a.out)
		if err != nil {
			return err
		}
		a.config.KlingSecretKey = v
	}
	return nil
}
