package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/models"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	IssueEmoji   = "📝"
	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
	RocketEmoji  = Accent.Sprint("🚀")
)

// SmartSpinner wraps a terminal spinner that reports its outcome on stop.
type SmartSpinner struct {
	spinner *spinner.Spinner
	out     io.Writer
}

func NewSmartSpinner(w io.Writer, message string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+IssueEmoji+" "+message),
		spinner.WithWriter(w),
	)
	return &SmartSpinner{spinner: s, out: w}
}

func (s *SmartSpinner) Start() {
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(s.out, msg)
}

func (s *SmartSpinner) Error(msg string) {
	s.Stop()
	PrintError(s.out, msg)
}

// WithSpinner runs fn behind a spinner and stops it whatever the outcome.
func WithSpinner(w io.Writer, message string, fn func() error) error {
	s := NewSmartSpinner(w, message)
	s.Start()
	err := fn()
	s.Stop()
	return err
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(w, "\n%s\n", separator)
	_, _ = fmt.Fprintf(w, "%s %s\n", RocketEmoji, Accent.Sprint(title))
	_, _ = fmt.Fprintf(w, "%s\n\n", separator)
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// PrintDraft renders a draft for review in the terminal.
func PrintDraft(w io.Writer, draft *models.IssueDraft, t *i18n.Translations) {
	PrintSectionBanner(w, t.GetMessage("draft_header", 0, nil))

	assignee := draft.Assignee()
	if assignee == "" {
		assignee = t.GetMessage("draft_no_assignee", 0, nil)
	}

	PrintKeyValue(w, t.GetMessage("draft_field_repository", 0, nil), draft.RepoURL)
	PrintKeyValue(w, t.GetMessage("draft_field_assignee", 0, nil), assignee)
	PrintKeyValue(w, t.GetMessage("draft_field_title", 0, nil), draft.Title)
	_, _ = fmt.Fprintf(w, "\n%s\n", Dim.Sprint(t.GetMessage("draft_field_body", 0, nil)+":"))
	for _, line := range strings.Split(draft.Body, "\n") {
		_, _ = fmt.Fprintf(w, "   %s\n", line)
	}
	_, _ = fmt.Fprintln(w)
}

// Table creates a tablewriter with the borderless style used across the CLI.
func Table(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// HandleAppError prints err localized, with its suggestion when present.
func HandleAppError(w io.Writer, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) || t == nil {
		PrintError(w, err.Error())
		return
	}

	_, _ = fmt.Fprintln(w)
	PrintError(w, t.ErrorMessage(err))

	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "   %v\n", appErr.Err)
	}
	if body, ok := appErr.Context["response_body"].(string); ok && body != "" {
		_, _ = Dim.Fprintf(w, "   %s\n", body)
	}

	if suggestion := t.ErrorSuggestion(err); suggestion != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = color.New(color.FgCyan).Fprintf(w, "💡 %s\n", suggestion)
	}
	_, _ = fmt.Fprintln(w)
}
