package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/beer-inventory/component"
)

// ClientInfo describes an outbound dependency shown in the startup summary.
type ClientInfo struct {
	Name   string
	Target string
	Status string
	Type   string
}

// Summary renders the startup report: components, outbound clients and
// live health.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	clients         []ClientInfo
	out             io.Writer
}

// NewSummary creates a summary writing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: os.Stdout}
}

func (s *Summary) SetOutput(w io.Writer) { s.out = w }
func (s *Summary) SetStartupDuration(d time.Duration) { s.startupDuration = d }

// TrackClient records an outbound client, for example the catalog source.
func (s *Summary) TrackClient(name, target, status, clientType string) {
	s.clients = append(s.clients, ClientInfo{Name: name, Target: target, Status: status, Type: clientType})
}

// Clients returns the tracked clients.
func (s *Summary) Clients() []ClientInfo { return s.clients }

// DisplaySummary writes the report. registry may be nil.
func (s *Summary) DisplaySummary(ctx context.Context, registry *component.Registry) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n🚀 %s v%s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	var components []component.Component
	var health []component.Health
	if registry != nil {
		components = registry.All()
		health = registry.HealthAll(ctx)
	}

	var lines []string
	for _, c := range components {
		d, ok := c.(component.Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		if desc.Name == "" {
			desc.Name = c.Name()
		}
		lines = append(lines, fmt.Sprintf("%s [%s]: %s", desc.Name, desc.Type, desc.Details))
	}
	section(&b, "📦 Components", lines)

	lines = lines[:0]
	for _, c := range s.clients {
		lines = append(lines, fmt.Sprintf("%s %s → %s [%s] (%s)", statusIcon(c.Status), c.Name, c.Target, c.Type, c.Status))
	}
	section(&b, "🔌 Clients", lines)

	lines = lines[:0]
	healthy := 0
	for _, h := range health {
		line := fmt.Sprintf("%s %s: %s", healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)))
		if h.Message != "" {
			line += " (" + h.Message + ")"
		}
		lines = append(lines, line)
		if h.Status == component.StatusHealthy {
			healthy++
		}
	}
	section(&b, "🏥 Health Check", lines)

	switch {
	case len(health) > 0 && healthy == len(health):
		fmt.Fprintf(&b, "\n✅ All components healthy (%d/%d)\n", healthy, len(health))
	case len(health) > 0:
		fmt.Fprintf(&b, "\n⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(health))
	case len(s.clients) == 0:
		b.WriteString("   └── No components registered\n")
	}

	b.WriteString("\n")
	_, _ = io.WriteString(s.out, b.String())
}

func section(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for i, l := range lines {
		fmt.Fprintf(b, "   %s %s\n", treePrefix(i, len(lines)), l)
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(status string) string {
	switch status {
	case "active", "connected", "healthy", "configured":
		return "✅"
	case "inactive", "disabled":
		return "⏸️"
	case "error", "failed", "missing":
		return "❌"
	default:
		return "⚠️"
	}
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
