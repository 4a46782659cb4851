// Package diffstrategy selects which pair of git revisions to diff based on
// the CI context of the current run. Selection is a pure function of its
// inputs and always resolves to a usable revision pair.
package diffstrategy

import "regexp"

const (
	// DefaultIntegrationBranch is the main integration branch name.
	DefaultIntegrationBranch = "main"

	// DefaultMaintenancePattern matches long-lived release-line branches
	// such as "1.0.x" or "2.3.x".
	DefaultMaintenancePattern = `^\d+\.\d+\.x$`

	// previousCommit is the immediate predecessor of the current commit.
	previousCommit = "HEAD~1"

	// currentCommit is the commit checked out at HEAD.
	currentCommit = "HEAD"

	// remotePrefix qualifies a pull-request base branch on the remote.
	remotePrefix = "origin/"
)

// Strategy labels for the verbose trace.
const (
	LabelIntegrationPush = "push to integration or maintenance branch"
	LabelExplicitBase    = "explicit base"
	LabelPullRequest     = "pull request"
	LabelPullRequestBase = "pull request (base ref only)"
	LabelFallback        = "previous commit fallback"
)

// Context carries every input that influences strategy selection. All ref
// fields are optional; empty means "not present".
type Context struct {
	// ExplicitBase is the base ref supplied on the command line.
	ExplicitBase string

	// PullRequestBase is the PR base branch name from the CI environment.
	PullRequestBase string

	// PullRequestHead is the PR head ref name from the CI environment.
	PullRequestHead string

	// RefName is the branch or tag name of the current run.
	RefName string

	// IntegrationBranch is the main integration branch; empty selects the default.
	IntegrationBranch string

	// MaintenancePattern matches maintenance branch names; nil selects the default.
	MaintenancePattern *regexp.Regexp
}

// Request is a concrete revision pair to diff. An empty Head means the
// current checkout (work tree), producing a one-endpoint diff; a non-empty
// Head produces the two-endpoint range form. The three-dot merge-base form
// is never produced.
type Request struct {
	Base  string
	Head  string
	Label string
}

// Args returns the git arguments for the name-only diff of this request.
func (r Request) Args() []string {
	args := []string{"diff", "--name-only", r.Base}
	if r.Head != "" {
		args = append(args, r.Head)
	}

	return args
}

var defaultMaintenanceRe = regexp.MustCompile(DefaultMaintenancePattern)

// Select picks the revision pair to diff. Rules fire in priority order:
//
//  1. the current ref is the integration branch or a maintenance branch:
//     diff the previous commit against the current one — pushes there are
//     single merge or cherry-pick commits, so the immediate predecessor
//     isolates exactly that change regardless of any other hint;
//  2. an explicit base was supplied: diff it against the current checkout;
//  3. both PR base and head refs are present: diff the remote base branch
//     against the current checkout;
//  4. only the PR base ref is present: same comparison as (3);
//  5. no context at all: diff the previous commit against the current one.
//
// Select never fails; rule 5 covers total absence of input.
func Select(c Context) Request {
	integration := c.IntegrationBranch
	if integration == "" {
		integration = DefaultIntegrationBranch
	}

	maintenance := c.MaintenancePattern
	if maintenance == nil {
		maintenance = defaultMaintenanceRe
	}

	if c.RefName == integration || maintenance.MatchString(c.RefName) {
		return Request{Base: previousCommit, Head: currentCommit, Label: LabelIntegrationPush}
	}

	if c.ExplicitBase != "" {
		return Request{Base: c.ExplicitBase, Label: LabelExplicitBase}
	}

	if c.PullRequestBase != "" && c.PullRequestHead != "" {
		return Request{Base: remotePrefix + c.PullRequestBase, Label: LabelPullRequest}
	}

	if c.PullRequestBase != "" {
		return Request{Base: remotePrefix + c.PullRequestBase, Label: LabelPullRequestBase}
	}

	return Request{Base: previousCommit, Head: currentCommit, Label: LabelFallback}
}
