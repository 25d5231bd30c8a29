package engine

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *ArtifactStore {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storedOutcomes() []SourceOutcome {
	return []SourceOutcome{{
		Source: SourceRef{ID: "vid123", Kind: KindVideo, Ref: "vid123"},
		Title:  "A video about caching",
		Ideas:  2,
		Artifacts: []Artifact{
			&ShortVideo{
				ID:          "vid123_001",
				ContentType: TypeShortVideo,
				VideoTitle:  "Why caching matters",
				Hook:        "Four seconds. Gone.",
				ScriptBody:  "Here is what caching did for us.",
			},
			&MicroPost{
				ID:          "vid123_002",
				ContentType: TypeMicroPost,
				PostTitle:   "Caching in one post",
				BodyText:    "We cut four seconds per request.",
			},
		},
		Failed: []FailedIdea{{Title: "Bad idea", Type: TypeCarousel, Reason: "never validated"}},
	}}
}

func TestStoreSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveSession(ctx, "vid123", "professional_business", storedOutcomes())
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if id == "" {
		t.Fatal("SaveSession returned empty id")
	}

	rec, err := s.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if rec.Input != "vid123" || rec.StylePreset != "professional_business" {
		t.Errorf("session fields wrong: %+v", rec)
	}
	if rec.CreatedAt == "" {
		t.Error("created_at not recorded")
	}
	if len(rec.Outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(rec.Outcomes))
	}

	out := rec.Outcomes[0]
	if len(out.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(out.Artifacts))
	}
	if _, ok := out.Artifacts[0].(*ShortVideo); !ok {
		t.Errorf("first artifact lost its concrete type: %T", out.Artifacts[0])
	}
	if _, ok := out.Artifacts[1].(*MicroPost); !ok {
		t.Errorf("second artifact lost its concrete type: %T", out.Artifacts[1])
	}
	if len(out.Failed) != 1 || out.Failed[0].Title != "Bad idea" {
		t.Errorf("failed ideas not restored: %+v", out.Failed)
	}
}

func TestStoreGetSessionNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetSession(context.Background(), "sess_missing"); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestStoreGetArtifact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveSession(ctx, "vid123", "", storedOutcomes()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	a, err := s.GetArtifact(ctx, "vid123_001")
	if err != nil {
		t.Fatalf("GetArtifact: %v", err)
	}
	sv, ok := a.(*ShortVideo)
	if !ok {
		t.Fatalf("wrong concrete type: %T", a)
	}
	if sv.ArtifactID() != "vid123_001" || sv.Hook != "Four seconds. Gone." {
		t.Errorf("artifact fields wrong: %+v", sv)
	}

	if _, err := s.GetArtifact(ctx, "vid123_999"); err == nil {
		t.Error("expected error for unknown artifact")
	}
}

func TestStoreUpdateArtifact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveSession(ctx, "vid123", "", storedOutcomes()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	edited := &MicroPost{
		ID:          "vid123_002",
		ContentType: TypeMicroPost,
		PostTitle:   "Caching, revisited",
		BodyText:    "Four seconds saved per request, every request.",
	}
	if err := s.UpdateArtifact(ctx, edited); err != nil {
		t.Fatalf("UpdateArtifact: %v", err)
	}

	a, err := s.GetArtifact(ctx, "vid123_002")
	if err != nil {
		t.Fatalf("GetArtifact after update: %v", err)
	}
	if a.Title() != "Caching, revisited" {
		t.Errorf("update not persisted: %+v", a)
	}

	missing := &MicroPost{ID: "vid123_404", ContentType: TypeMicroPost, PostTitle: "X", BodyText: "Y"}
	if err := s.UpdateArtifact(ctx, missing); err == nil {
		t.Error("expected error updating unknown artifact")
	}
}
