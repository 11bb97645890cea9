package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	domainErrors "github.com/Tomas-vilte/ghwait/internal/errors"
	"github.com/Tomas-vilte/ghwait/internal/i18n"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	CheckMark = "✔"
	CrossMark = "✘"
)

// SmartSpinner wraps a terminal spinner. A disabled spinner swallows every
// call except the final persisted line.
type SmartSpinner struct {
	spinner *spinner.Spinner
	w       io.Writer
	enabled bool
}

// NewSmartSpinner creates a spinner writing to w. enabled=false is used for
// --quiet and for tests.
func NewSmartSpinner(w io.Writer, initialMessage string, enabled bool) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithWriter(w),
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+initialMessage),
	)
	return &SmartSpinner{spinner: s, w: w, enabled: enabled}
}

func (s *SmartSpinner) Start() {
	if s.enabled {
		s.spinner.Start()
	}
}

func (s *SmartSpinner) Stop() {
	if s.enabled {
		s.spinner.Stop()
	}
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	if !s.enabled {
		return
	}
	s.spinner.Lock()
	s.spinner.Suffix = " " + msg
	s.spinner.Unlock()
}

// StopAndPersist stops the spinner and leaves symbol and msg on screen.
func (s *SmartSpinner) StopAndPersist(symbol, msg string) {
	s.Stop()
	_, _ = fmt.Fprintf(s.w, "%s %s\n", symbol, msg)
}

func (s *SmartSpinner) Success(msg string) {
	s.StopAndPersist(Success.Sprint(CheckMark), Success.Sprint(msg))
}

func (s *SmartSpinner) Error(msg string) {
	s.StopAndPersist(Error.Sprint(CrossMark), Error.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint(CrossMark), Error.Sprint(msg))
}

func PrintKeyValue(w io.Writer, key, value string) {
	_, _ = fmt.Fprintf(w, "   %s %s\n", Dim.Sprint(key+":"), color.New(color.FgWhite, color.Bold).Sprint(value))
}

// HandleAppError prints err in a friendly way. The stderr of a failed
// external tool is echoed verbatim before anything else.
// If translations is nil, English defaults are used.
func HandleAppError(w io.Writer, err error, translations ...*i18n.Translations) {
	if err == nil {
		return
	}

	var t *i18n.Translations
	if len(translations) > 0 && translations[0] != nil {
		t = translations[0]
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	if stderr := appErr.Stderr(); stderr != "" {
		_, _ = io.WriteString(w, stderr)
		if !strings.HasSuffix(stderr, "\n") {
			_, _ = io.WriteString(w, "\n")
		}
	}

	_, _ = Error.Fprintf(w, "%s %s: %s\n", CrossMark, appErr.Type, appErr.Message)

	if appErr.Err != nil && appErr.Stderr() == "" {
		details := "Details"
		if t != nil {
			details = t.GetMessage("ui_error.details", 0, nil)
		}
		_, _ = Dim.Fprintf(w, "   %s: %v\n", details, appErr.Err)
	}

	if appErr.Suggestion != "" {
		tryPrefix := "💡 Try: "
		if t != nil {
			tryPrefix = t.GetMessage("ui_error.try_suggestion", 0, nil)
		}
		_, _ = Info.Fprint(w, tryPrefix)
		for i, line := range strings.Split(appErr.Suggestion, "\n") {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
			} else {
				_, _ = fmt.Fprintf(w, "       %s\n", line)
			}
		}
	}
}

// ShortCommit abbreviates a commit hash for display.
func ShortCommit(oid string) string {
	if len(oid) > 7 {
		return oid[:7]
	}
	return oid
}
