// Package githubout posts the separation report as a pull request comment.
package githubout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

const (
	appName = "chart-dbsep"

	// maxCommentLen stays under GitHub's 65536 character limit for comment bodies.
	maxCommentLen = 65000
)

// commentMarker identifies comments owned by this tool so reruns replace them.
var commentMarker = fmt.Sprintf("<!-- %s: database-separation -->", appName)

// PullRequest identifies the pull request receiving the comment.
type PullRequest struct {
	Owner  string
	Repo   string
	Number int
}

// ParseRepository splits an "owner/repo" string such as GITHUB_REPOSITORY.
func ParseRepository(fullName string) (owner, repo string, err error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}

// Adapter implements ports.ReportingPort by commenting on a pull request.
type Adapter struct {
	client *gogithub.Client
	pr     PullRequest
	logger *slog.Logger
}

// New creates a new GitHub reporting adapter.
func New(client *gogithub.Client, pr PullRequest, logger *slog.Logger) *Adapter {
	return &Adapter{client: client, pr: pr, logger: logger}
}

// PostReport implements ports.ReportingPort. Earlier comments from this tool
// are removed first so the PR only ever shows the latest result.
func (a *Adapter) PostReport(ctx context.Context, report domain.Report) error {
	a.logger.Info("posting PR comment", "owner", a.pr.Owner, "repo", a.pr.Repo, "pr", a.pr.Number)

	a.deleteMatchingComments(ctx)

	_, _, err := a.client.Issues.CreateComment(ctx, a.pr.Owner, a.pr.Repo, a.pr.Number, &gogithub.IssueComment{
		Body: gogithub.Ptr(FormatComment(report)),
	})
	if err != nil {
		return fmt.Errorf("creating PR comment: %w", err)
	}

	a.logger.Info("PR comment posted successfully", "pr", a.pr.Number)
	return nil
}

// deleteMatchingComments deletes comments containing the marker. Failures
// are logged; a stale comment is not worth failing the run for.
func (a *Adapter) deleteMatchingComments(ctx context.Context) {
	opts := &gogithub.IssueListCommentsOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}
	for {
		comments, resp, err := a.client.Issues.ListComments(ctx, a.pr.Owner, a.pr.Repo, a.pr.Number, opts)
		if err != nil {
			a.logger.Warn("failed to list comments, continuing anyway", "error", err)
			return
		}
		for _, comment := range comments {
			if !strings.Contains(comment.GetBody(), commentMarker) {
				continue
			}
			a.logger.Info("deleting old comment", "commentID", comment.GetID())
			if _, err := a.client.Issues.DeleteComment(ctx, a.pr.Owner, a.pr.Repo, comment.GetID()); err != nil {
				a.logger.Warn("failed to delete old comment", "commentID", comment.GetID(), "error", err)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return
		}
		opts.Page = resp.NextPage
	}
}

// FormatComment renders the markdown body of the PR comment.
func FormatComment(report domain.Report) string {
	var sb strings.Builder

	sb.WriteString(commentMarker + "\n")
	sb.WriteString("## 🗄️ Database Separation Report\n\n")

	errCount, warnCount := domain.CountBySeverity(report.Issues)
	switch {
	case errCount > 0:
		fmt.Fprintf(&sb, "❌ **Status:** %d error(s), %d warning(s)\n\n", errCount, warnCount)
	case warnCount > 0:
		fmt.Fprintf(&sb, "⚠️ **Status:** %d warning(s)\n\n", warnCount)
	default:
		sb.WriteString("✅ **Status:** Database separation validated - no issues found\n\n")
	}

	fmt.Fprintf(&sb, "Checked %d of %d values file(s).\n\n", len(report.FilesChecked), report.FilesScanned)

	if found := report.Found.Sorted(); len(found) > 0 {
		sb.WriteString("**Databases found:** ")
		for i, name := range found {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "`%s`", name)
		}
		sb.WriteString("\n\n")
	}

	if report.HasIssues() {
		sb.WriteString("| Severity | Finding | Location |\n")
		sb.WriteString("|----------|---------|----------|\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", severityLabel(issue.Severity), escapeCell(issue.Message), location(issue))
		}
		sb.WriteString("\n")

		sb.WriteString("<details>\n<summary>Required service databases</summary>\n\n")
		for _, r := range report.Policy.Required {
			fmt.Fprintf(&sb, "- `%s`: For %s\n", r.Name, r.Purpose)
		}
		sb.WriteString("\n</details>\n\n")
	}

	if len(report.Failures) > 0 {
		sb.WriteString("**Unreadable files:**\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&sb, "- `%s`: %s\n", f.Path, f.Error)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "_Posted by %s_\n", appName)

	return truncateIfNeeded(sb.String())
}

func severityLabel(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return "❌ Error"
	case domain.SeverityWarning:
		return "⚠️ Warning"
	default:
		return "Unknown"
	}
}

func location(issue domain.Issue) string {
	switch {
	case issue.File == "":
		return "-"
	case issue.Line > 0:
		return fmt.Sprintf("`%s:%d`", issue.File, issue.Line)
	default:
		return fmt.Sprintf("`%s`", issue.File)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncateIfNeeded cuts text to at most maxCommentLen bytes, never inside a
// multi-byte character.
func truncateIfNeeded(text string) string {
	if len(text) <= maxCommentLen {
		return text
	}
	const truncMsg = "\n\n... (output truncated)"
	cut := maxCommentLen - len(truncMsg)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncMsg
}

