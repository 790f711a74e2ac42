// Package clipboardx writes to the system clipboard with an OSC 52 escape
// fallback for remote terminals, keeping an in-process copy as a last resort.
package clipboardx

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

var internal string

func Write(text string) bool {
	internal = text
	ok := clipboard.WriteAll(text) == nil
	if writeOSC52(text) {
		ok = true
	}
	return ok
}

func Read() string {
	if text, err := clipboard.ReadAll(); err == nil && text != "" {
		return text
	}
	return internal
}

func writeOSC52(text string) bool {
	if text == "" {
		return false
	}
	if fi, err := os.Stdout.Stat(); err != nil || (fi.Mode()&os.ModeCharDevice) == 0 {
		return false
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(os.Stdout, "\x1b]52;c;%s\x07", encoded)
	return err == nil
}
