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

// readPassword подменяется в тестах.
var readPassword = term.ReadPassword

// password берёт пароль из флага, а если он пуст, спрашивает без эха. Когда
// stdin не терминал, пароль читается первой строкой ввода.
func (a *app) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	fmt.Fprint(a.stderr, "Password: ")
	defer fmt.Fprintln(a.stderr)

	if file, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		data, err := readPassword(int(file.Fd()))
		if err != nil {
			return "", fmt.Errorf("не удалось прочитать пароль: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("не удалось прочитать пароль: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
