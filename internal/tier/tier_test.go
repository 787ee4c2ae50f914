package tier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/selimozcann/seoaudit/internal/audit"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func loadFixture(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "demo.yaml"), `
name: demo
description: demo tier
rate_limits:
  audits_per_day: 5
  audits_per_hour: 2
allowed_domains: [example.com]
`)
	writeFile(t, filepath.Join(dir, "internal.yaml"), `
name: internal
display_name: Internal
features: {ai_insights: true}
audit_settings: {concurrent_requests: 8}
`)
	writeFile(t, filepath.Join(dir, "paid", "pro.yaml"), `
name: pro
display_name: Pro
price_monthly: 99
features: {ai_insights: true}
`)
	writeFile(t, filepath.Join(dir, "paid", "starter.yaml"), `
name: starter
price_monthly: 29
`)
	writeFile(t, filepath.Join(dir, "broken.yaml"), "name: [unterminated")
	writeFile(t, filepath.Join(dir, "nameless.yaml"), "description: no name\n")

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return m
}

func TestLoad(t *testing.T) {
	m := loadFixture(t)
	if got := len(m.All()); got != 4 {
		t.Fatalf("expected 4 tiers, got %d", got)
	}
	demo, ok := m.Get("demo")
	if !ok {
		t.Fatalf("demo tier missing")
	}
	if demo.DisplayName != "demo" {
		t.Fatalf("display name should default to name, got %q", demo.DisplayName)
	}
	if demo.AuditSettings.ConcurrentRequests != 1 || demo.AuditSettings.MaxDepth != 1 {
		t.Fatalf("unexpected defaults %+v", demo.AuditSettings)
	}
	internal, _ := m.Get("internal")
	if internal.Concurrency() != 8 {
		t.Fatalf("expected concurrency 8, got %d", internal.Concurrency())
	}

	paid := m.Paid()
	if len(paid) != 2 || paid[0].Name != "starter" || paid[1].Name != "pro" {
		t.Fatalf("unexpected paid order: %v", paid)
	}
	if paid[0].Price() != "$29/mo" || demo.Price() != "Free" {
		t.Fatalf("unexpected prices %q %q", paid[0].Price(), demo.Price())
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestCanAuditDomain(t *testing.T) {
	m := loadFixture(t)
	demo, _ := m.Get("demo")
	cases := map[string]bool{
		"example.com":      true,
		"www.example.com":  true,
		"EXAMPLE.com":      true,
		"badexample.com":   false,
		"example.com.evil": false,
	}
	for host, want := range cases {
		if got := demo.CanAuditDomain(host); got != want {
			t.Fatalf("CanAuditDomain(%q) = %v, want %v", host, got, want)
		}
	}
	pro, _ := m.Get("pro")
	if !pro.CanAuditDomain("anything.test") {
		t.Fatalf("tier without allowed domains should accept any host")
	}
}

func TestCheckRateLimit(t *testing.T) {
	m := loadFixture(t)
	demo, _ := m.Get("demo")
	if !demo.CheckRateLimit(4, 1) {
		t.Fatalf("usage under both limits should pass")
	}
	if demo.CheckRateLimit(5, 0) {
		t.Fatalf("daily limit reached should fail")
	}
	if demo.CheckRateLimit(0, 2) {
		t.Fatalf("hourly limit reached should fail")
	}
	pro, _ := m.Get("pro")
	if !pro.CheckRateLimit(1_000_000, 1_000_000) {
		t.Fatalf("unlimited tier should always pass")
	}
}

func TestApply(t *testing.T) {
	m := loadFixture(t)
	demo, _ := m.Get("demo")
	if demo.Apply(audit.Options{IncludeNarrative: true}).IncludeNarrative {
		t.Fatalf("demo tier must drop narratives")
	}
	pro, _ := m.Get("pro")
	if !pro.Apply(audit.Options{IncludeNarrative: true}).IncludeNarrative {
		t.Fatalf("pro tier should keep narratives")
	}
	if pro.Apply(audit.Options{}).IncludeNarrative {
		t.Fatalf("Apply must not enable narratives")
	}
}
