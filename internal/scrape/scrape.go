// Package scrape extracts service status updates from agent transcript
// lines and feeds them into a status sink.
//
// Transcripts interleave narrative text, task markers and per-service
// summaries, so extraction is best effort: markers like "✓"/"✗", markdown
// completion headers and a keyword score decide when a line changes a
// service's status. A parse pass never fails the run it observes.
package scrape

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/imamik/forkfleet/internal/provisioning"
)

// globalCompletionPatterns mark the whole fleet as done when they appear.
var globalCompletionPatterns = []string{
	"successfully completed repository initialization",
	"all repositories are now:",
	"repository status:",
}

// Scoring keywords for per-service completion lines. Wording varies between
// transcripts, so completion needs two success keywords and no mid-process
// keyword on the same line.
var (
	successKeywords   = []string{"success", "successfully", "completed", "complete", "finished"}
	exclusionKeywords = []string{"waiting", "starting", "initiated", "checking", "attempting", "not"}
)

// ServiceStatus is one service's extracted state after a parse pass.
type ServiceStatus struct {
	Service string
	Status  provisioning.StatusKind
	Detail  string
}

// Parser extracts status updates for a fixed set of services.
type Parser struct {
	services []string
	sink     provisioning.StatusSink
	patterns map[string]*regexp.Regexp
	statuses map[string]provisioning.StatusKind
	details  map[string]string
}

// NewParser creates a parser for the given services. Every extracted change
// is forwarded to sink.
func NewParser(services []string, sink provisioning.StatusSink) *Parser {
	if sink == nil {
		sink = provisioning.NullSink{}
	}
	p := &Parser{
		services: services,
		sink:     sink,
		patterns: make(map[string]*regexp.Regexp, len(services)),
		statuses: make(map[string]provisioning.StatusKind, len(services)),
		details:  make(map[string]string, len(services)),
	}
	for _, svc := range services {
		// Word-boundary matching that treats hyphens as part of the word,
		// so "indexer" does not match inside "indexer-queue".
		p.patterns[svc] = regexp.MustCompile(`(?i)(^|[^a-zA-Z0-9-])` + regexp.QuoteMeta(svc) + `([^a-zA-Z0-9-]|$)`)
		p.statuses[svc] = provisioning.StatusPending
	}
	return p
}

// Feed parses every line from r.
func (p *Parser) Feed(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.ParseLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}
	return nil
}

// ParseLine extracts status updates from a single transcript line.
func (p *Parser) ParseLine(line string) {
	lower := strings.ToLower(line)
	stripped := strings.TrimSpace(line)

	p.markCompletionHeaders(line, lower, stripped)
	p.markGlobalCompletion(lower)
	p.markScoredCompletion(lower)

	// A line about a named service updates that service; otherwise task
	// markers apply to the first service that is still in flight.
	subject := p.mentionedService(lower)
	if subject == "" {
		subject = p.activeService()
	}

	if subject != "" {
		switch {
		case strings.HasPrefix(stripped, "✓"):
			p.applyTaskMarker(subject, stripped)
		case strings.HasPrefix(stripped, "✗"):
			desc := strings.TrimSpace(strings.TrimPrefix(stripped, "✗"))
			p.update(subject, provisioning.StatusError, "Failed: "+truncate(desc, 30))
		}
		p.applyNarrative(subject, lower)
	}

	p.applyServiceEvents(lower)
}

// Results returns the extracted state of every service in catalog order.
func (p *Parser) Results() []ServiceStatus {
	results := make([]ServiceStatus, 0, len(p.services))
	for _, svc := range p.services {
		results = append(results, ServiceStatus{
			Service: svc,
			Status:  p.statuses[svc],
			Detail:  p.details[svc],
		})
	}
	return results
}

// markCompletionHeaders handles markdown-style per-service completion
// headers such as "### ✅ Partition Service".
func (p *Parser) markCompletionHeaders(line, lower, stripped string) {
	for _, svc := range p.services {
		if strings.Contains(line, "✅ "+svc) || strings.Contains(line, "✓ "+svc) {
			if strings.Contains(lower, "service") {
				p.update(svc, provisioning.StatusSuccess, "Completed successfully")
			}
			continue
		}
		if strings.HasPrefix(stripped, "###") && p.inLine(svc, lower) && strings.Contains(lower, "service") {
			if strings.Contains(line, "✅") || strings.Contains(line, "✓") {
				p.update(svc, provisioning.StatusSuccess, "Completed successfully")
			}
		}
	}
}

// markGlobalCompletion finishes every unfinished service when the
// transcript announces fleet-wide completion.
func (p *Parser) markGlobalCompletion(lower string) {
	for _, pattern := range globalCompletionPatterns {
		if strings.Contains(lower, pattern) {
			for _, svc := range p.services {
				switch p.statuses[svc] {
				case provisioning.StatusSuccess, provisioning.StatusSkipped, provisioning.StatusError:
				default:
					p.update(svc, provisioning.StatusSuccess, "Completed successfully")
				}
			}
			return
		}
	}
}

// markScoredCompletion detects free-form per-service completion sentences.
func (p *Parser) markScoredCompletion(lower string) {
	for _, svc := range p.services {
		if !p.inLine(svc, lower) || !strings.Contains(lower, "service") {
			continue
		}

		score := 0
		for _, keyword := range successKeywords {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		excluded := false
		for _, keyword := range exclusionKeywords {
			if strings.Contains(lower, keyword) {
				excluded = true
				break
			}
		}

		if score >= 2 && !excluded {
			p.update(svc, provisioning.StatusSuccess, "Completed successfully")
			return // only one service per line
		}
	}
}

// applyTaskMarker maps "✓ <task>" markers onto status updates.
func (p *Parser) applyTaskMarker(service, marker string) {
	task := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(marker, "✓")))
	status := p.statuses[service]
	details := strings.ToLower(p.details[service])

	switch {
	case strings.Contains(task, "check if") && strings.Contains(task, "repository already exists"):
		// Outcome still unknown, keep the current status.
	case strings.Contains(task, "create") && (strings.Contains(task, "repository") || strings.Contains(task, "repo")):
		p.update(service, provisioning.StatusRunning, "Creating repository")
	case strings.Contains(task, "wait") || strings.Contains(task, "workflow"):
		p.update(service, provisioning.StatusWaiting, "Waiting for workflow")
	case strings.Contains(task, "read") && strings.Contains(task, "issue"):
		p.update(service, provisioning.StatusRunning, "Reading initialization issue")
	case strings.Contains(task, "comment"):
		p.update(service, provisioning.StatusRunning, "Commenting on issue")
	case strings.Contains(task, "pull") || (strings.Contains(task, "clone") && !strings.Contains(details, "finalization")):
		// A pull after the workflow wait is the finalization sync, an
		// earlier one is the initial repository sync.
		if status == provisioning.StatusWaiting || strings.Contains(details, "workflow") || strings.Contains(details, "verifying") {
			p.update(service, provisioning.StatusRunning, "Finalizing - pulling updates")
		} else {
			p.update(service, provisioning.StatusRunning, "Syncing repository")
		}
	case strings.Contains(task, "check") && (strings.Contains(task, "branch") ||
		strings.Contains(task, "commit") || strings.Contains(task, "issue") || strings.Contains(task, "closed")):
		p.update(service, provisioning.StatusRunning, "Verifying workflow results")
	case strings.Contains(task, "verify") || strings.Contains(task, "view"):
		p.update(service, provisioning.StatusRunning, "Final verification")
	}
}

// applyNarrative maps the transcript's narrative phrases onto status
// updates for the service the line is about.
func (p *Parser) applyNarrative(service, lower string) {
	switch {
	case strings.Contains(lower, "doesn't exist yet") || strings.Contains(lower, "repo_not_found"):
		p.update(service, provisioning.StatusRunning, "Repository not found - creating")
	case strings.Contains(lower, "good!") && strings.Contains(lower, "repository is cloned locally"):
		p.update(service, provisioning.StatusRunning, "Repository synced")
	case strings.Contains(lower, "excellent!"):
		if strings.Contains(lower, "created and cloned") {
			p.update(service, provisioning.StatusRunning, "Repository created")
		} else if strings.Contains(lower, "successfully updated") {
			p.update(service, provisioning.StatusSuccess, "Completed successfully")
		}
	case strings.Contains(lower, "perfect!"):
		if strings.Contains(lower, "workflow has completed successfully") {
			p.update(service, provisioning.StatusRunning, "Workflow completed")
		} else {
			p.update(service, provisioning.StatusRunning, "Verification complete")
		}
	case strings.Contains(lower, "great!") && strings.Contains(lower, "found the issue"):
		p.update(service, provisioning.StatusRunning, "Found initialization issue")
	}
}

// applyServiceEvents handles explicit per-service terminations.
func (p *Parser) applyServiceEvents(lower string) {
	for _, svc := range p.services {
		if !p.inLine(svc, lower) {
			continue
		}
		if (strings.Contains(lower, "terminate workflow") || strings.Contains(lower, "do not continue")) &&
			strings.Contains(lower, "success") {
			p.update(svc, provisioning.StatusSkipped, "Already exists")
		} else if strings.Contains(lower, "permission denied") || strings.Contains(lower, "could not request permission") {
			p.update(svc, provisioning.StatusError, "Permission denied")
		}
	}
}

// activeService returns the first service that has not finished yet.
func (p *Parser) activeService() string {
	for _, svc := range p.services {
		switch p.statuses[svc] {
		case provisioning.StatusSuccess, provisioning.StatusSkipped:
		default:
			return svc
		}
	}
	return ""
}

// mentionedService returns the first service named in the line.
func (p *Parser) mentionedService(lower string) string {
	for _, svc := range p.services {
		if p.inLine(svc, lower) {
			return svc
		}
	}
	return ""
}

func (p *Parser) inLine(service, line string) bool {
	return p.patterns[service].MatchString(line)
}

func (p *Parser) update(service string, status provisioning.StatusKind, detail string) {
	p.statuses[service] = status
	p.details[service] = detail
	p.sink.Update(service, status, detail)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
