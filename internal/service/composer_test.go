package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xiaobei/subhub/internal/storage"
	"github.com/xiaobei/subhub/pkg/utils"
)

func TestComposeMixedEntries(t *testing.T) {
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("vless://aaa@1.2.3.4:443#node-a\nvless://bbb@1.2.3.4:443#node-b\n"))
	}))
	defer plain.Close()

	encoded := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(utils.EncodeBase64("trojan://ccc@5.6.7.8:443#node-c\n")))
	}))
	defer encoded.Close()

	entries := []storage.Subscription{
		{ID: "r1", Name: "plain", URL: plain.URL, Enabled: true},
		{ID: "r2", Name: "encoded", URL: encoded.URL, Enabled: true},
		{ID: "m1", Name: "manual", URL: "ss://ZGVm@9.9.9.9:443#manual-node", Enabled: true},
	}

	composer := NewComposer()
	got := composer.Compose(context.Background(), "clash-verge/v1.6.6", entries, "", nil)

	want := "vless://aaa@1.2.3.4:443#node-a\n" +
		"vless://bbb@1.2.3.4:443#node-b\n" +
		"trojan://ccc@5.6.7.8:443#node-c\n" +
		"ss://ZGVm@9.9.9.9:443#manual-node\n"
	if got != want {
		t.Fatalf("Compose() = %q, want %q", got, want)
	}
}

func TestComposeOrderStableAcrossRuns(t *testing.T) {
	var servers []*httptest.Server
	var entries []storage.Subscription
	for _, name := range []string{"one", "two", "three", "four"} {
		name := name
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("vless://x@1.2.3.4:443#" + name))
		}))
		servers = append(servers, srv)
		entries = append(entries, storage.Subscription{ID: name, Name: name, URL: srv.URL, Enabled: true})
	}
	defer func() {
		for _, srv := range servers {
			srv.Close()
		}
	}()

	composer := NewComposer()
	want := composer.Compose(context.Background(), "", entries, "", nil)
	for i := 0; i < 5; i++ {
		if got := composer.Compose(context.Background(), "", entries, "", nil); got != want {
			t.Fatalf("Compose() order unstable: %q vs %q", got, want)
		}
	}
	if !strings.HasPrefix(want, "vless://x@1.2.3.4:443#one\n") {
		t.Fatalf("Compose() = %q, want entry order preserved", want)
	}
}

func TestComposePrependedAndPrefix(t *testing.T) {
	entries := []storage.Subscription{
		{ID: "m1", Name: "manual", URL: "ss://ZGVm@9.9.9.9:443#node", Enabled: true},
		{ID: "m2", Name: "bare", URL: "ss://ZGVm@8.8.8.8:443", Enabled: true},
	}
	prefix := &storage.PrefixSettings{Enabled: true, Prefix: "HK"}

	composer := NewComposer()
	got := composer.Compose(context.Background(), "", entries, "ss://dHJhZmZpYw==@127.0.0.1:80#quota", prefix)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Compose() produced %d lines, want 3", len(lines))
	}
	if lines[0] != "ss://dHJhZmZpYw==@127.0.0.1:80#quota" {
		t.Fatalf("prepended line = %q, want the quota node untouched", lines[0])
	}
	if lines[1] != "ss://ZGVm@9.9.9.9:443#HKnode" {
		t.Fatalf("line = %q, want prefix before display name", lines[1])
	}
	if lines[2] != "ss://ZGVm@8.8.8.8:443#HK" {
		t.Fatalf("line = %q, want fragment appended to bare URI", lines[2])
	}
}

func TestComposeSkipsClashYAML(t *testing.T) {
	clash := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("proxies:\n  - name: hk-1\n    type: ss\n  - name: hk-2\n    type: ss\n"))
	}))
	defer clash.Close()

	entries := []storage.Subscription{
		{ID: "r1", Name: "clash", URL: clash.URL, Enabled: true},
		{ID: "m1", Name: "manual", URL: "ss://ZGVm@9.9.9.9:443#kept", Enabled: true},
	}

	composer := NewComposer()
	got := composer.Compose(context.Background(), "", entries, "", nil)

	if got != "ss://ZGVm@9.9.9.9:443#kept\n" {
		t.Fatalf("Compose() = %q, want only the manual node", got)
	}
}

func TestComposeSkipsFailedFetch(t *testing.T) {
	entries := []storage.Subscription{
		{ID: "r1", Name: "dead", URL: "http://127.0.0.1:1/sub", Enabled: true},
		{ID: "m1", Name: "manual", URL: "ss://ZGVm@9.9.9.9:443#alive", Enabled: true},
	}

	composer := NewComposer()
	got := composer.Compose(context.Background(), "", entries, "", nil)

	if got != "ss://ZGVm@9.9.9.9:443#alive\n" {
		t.Fatalf("Compose() = %q, want the reachable entry only", got)
	}
}

func TestComposeEmpty(t *testing.T) {
	composer := NewComposer()
	if got := composer.Compose(context.Background(), "", nil, "", nil); got != "" {
		t.Fatalf("Compose() = %q, want empty", got)
	}
}
