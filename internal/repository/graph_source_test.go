package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/vanshika/creditbridge/backend/internal/graph"
)

func TestGraphStore_UpsertProfile(t *testing.T) {
	mem := graph.NewMemoryClient()
	store := NewGraphStore(mem)

	profile := DefaultProfiles()[1]
	if err := store.UpsertProfile(context.Background(), profile, 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	call := calls[0]
	if call.Query != upsertProfileCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", upsertProfileCypher, call.Query)
	}
	if call.Params["profileId"] != profile.ID {
		t.Errorf("expected profileId %s, got %v", profile.ID, call.Params["profileId"])
	}

	props, ok := call.Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", call.Params["props"])
	}
	if props["loanAmount"] != "300000" {
		t.Errorf("loanAmount should be stored as decimal text, got %v", props["loanAmount"])
	}
	if props["seq"] != 1 {
		t.Errorf("expected seq 1, got %v", props["seq"])
	}
	if props["documentScore"] != 88.0 {
		t.Errorf("expected documentScore 88, got %v", props["documentScore"])
	}
}

func TestGraphStore_UpsertRejectsInvalid(t *testing.T) {
	mem := graph.NewMemoryClient()
	store := NewGraphStore(mem)

	profile := DefaultProfiles()[0]
	profile.Confidence = 140
	if err := store.UpsertProfile(context.Background(), profile, 0); err == nil {
		t.Fatal("expected validation error")
	}
	if len(mem.WriteCalls()) != 0 {
		t.Fatal("invalid profile must not reach the graph")
	}
}

func TestGraphStore_Snapshot(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"profileId":      "CR010",
			"name":           "Meera Iyer",
			"email":          "meera.iyer@email.com",
			"phone":          "+91 99887 76655",
			"assessmentDate": "2024-02-01",
			"loanAmount":     "450000.50",
			"creditScore":    int64(710),
			"riskLevel":      "Medium",
			"decision":       "Pending",
			"confidence":     78.4,
			"bankingScore":   int64(80),
		},
		{
			"profileId":      "CR011",
			"name":           "Farhan Ali",
			"email":          "farhan.ali@email.com",
			"phone":          "+91 99887 76600",
			"assessmentDate": "2024-02-02",
			"loanAmount":     int64(120000),
			"creditScore":    int64(655),
			"riskLevel":      "High",
			"decision":       "Rejected",
			"confidence":     81.0,
		},
	}})

	src, err := NewGraphStore(mem).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if src.Len() != 2 {
		t.Fatalf("expected 2 profiles, got %d", src.Len())
	}

	p, err := src.Get(context.Background(), "CR010")
	if err != nil {
		t.Fatalf("expected CR010, got %v", err)
	}
	if p.LoanAmount.String() != "450000.5" {
		t.Errorf("unexpected loan amount %s", p.LoanAmount)
	}
	if p.SubScores.Banking == nil || *p.SubScores.Banking != 80 {
		t.Errorf("expected banking score 80, got %v", p.SubScores.Banking)
	}
	if p.SubScores.Document != nil {
		t.Errorf("expected nil document score, got %v", *p.SubScores.Document)
	}
}

func TestGraphStore_LoadError(t *testing.T) {
	boom := errors.New("bolt unavailable")
	mem := graph.NewMemoryClient().WithError(boom)

	_, err := NewGraphStore(mem).LoadProfiles(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped bolt error, got %v", err)
	}
}
