package msg

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

func Error(format string, a ...any) {
	fmt.Fprint(os.Stderr, color.HiRedString("error"), ": ")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
}

func Warn(format string, a ...any) {
	fmt.Fprint(os.Stderr, color.YellowString("warn"), ": ")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
}

func Fatal(format string, a ...any) {
	fmt.Fprint(os.Stderr, color.RedString("fatal"), ": ")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

func Info(format string, a ...any) {
	fmt.Fprint(os.Stderr, color.HiGreenString("info"), ": ")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
}

// IndentWriter prefixes every line written through it with Indent.
// Used to offset subprocess output from our own messages.
type IndentWriter struct {
	Indent  string
	W       io.Writer
	midline bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	total := len(p)
	for len(p) > 0 {
		if !w.midline {
			if _, err := io.WriteString(w.W, w.Indent); err != nil {
				return total - len(p), err
			}
			w.midline = true
		}
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			_, err := w.W.Write(p)
			return total, err
		}
		if _, err := w.W.Write(p[:i+1]); err != nil {
			return total - len(p), err
		}
		w.midline = false
		p = p[i+1:]
	}
	return total, nil
}
