package mongo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

func sampleCase() (*domain.Case, *domain.TimelineEvent) {
	created := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	c := &domain.Case{
		ID:             "case_01",
		ReferenceCode:  "RH-7K2P9",
		ClientID:       "usr_client",
		ClientName:     "Roberto Almeida",
		ProfessionalID: "usr_pro",
		Type:           domain.CaseTypeSuspension,
		Fines: []domain.Fine{
			{ID: "f1", Points: 7, EvidenceRef: "a.pdf", DocumentName: "Auto A"},
			{ID: "f2", Points: 5, EvidenceRef: "b.pdf"},
		},
		TotalPoints:    12,
		Fee:            decimal.RequireFromString("490.00"),
		Status:         domain.StatusActive,
		Narrative:      "multas de janeiro",
		RegistryNumber: "1234/2026",
		Organ:          "DETRAN-SP",
		LastNote:       "Protocolado",
		CreatedAt:      created,
		UpdatedAt:      created.Add(time.Hour),
	}
	ev := &domain.TimelineEvent{
		ID:             "evt_01",
		CaseID:         c.ID,
		Seq:            1,
		Timestamp:      created,
		Title:          "Processo Iniciado",
		Description:    "Caso aberto.",
		AuthorRole:     domain.RoleSystem,
		AuthorName:     "Radar Hub",
		Kind:           domain.EventStatusChange,
		AttachmentRefs: []string{"a.pdf", "b.pdf"},
	}
	return c, ev
}

func assertSameCase(t *testing.T, want, got *domain.Case) {
	t.Helper()
	if got.ID != want.ID || got.ReferenceCode != want.ReferenceCode || got.ClientID != want.ClientID ||
		got.ClientName != want.ClientName || got.ProfessionalID != want.ProfessionalID || got.Type != want.Type {
		t.Fatalf("identity fields differ: %+v", got)
	}
	if got.Status != want.Status || got.TotalPoints != want.TotalPoints || !got.Fee.Equal(want.Fee) {
		t.Fatalf("state differs: %s / %d / %s", got.Status, got.TotalPoints, got.Fee)
	}
	if got.Narrative != want.Narrative || got.RegistryNumber != want.RegistryNumber ||
		got.Organ != want.Organ || got.LastNote != want.LastNote {
		t.Fatalf("annotations differ: %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("timestamps differ: %s / %s", got.CreatedAt, got.UpdatedAt)
	}
	if len(got.Fines) != len(want.Fines) {
		t.Fatalf("expected %d fines, got %d", len(want.Fines), len(got.Fines))
	}
	for i := range want.Fines {
		if got.Fines[i] != want.Fines[i] {
			t.Fatalf("fine %d: expected %+v, got %+v", i, want.Fines[i], got.Fines[i])
		}
	}
}

func TestMongoCase_RoundTrip(t *testing.T) {
	c, ev := sampleCase()

	raw, err := bson.Marshal(newMongoCase(c, 3, ev))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc mongoCase
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := doc.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	assertSameCase(t, c, got)
	if got.Version != 3 {
		t.Fatalf("expected version 3, got %d", got.Version)
	}

	if len(doc.Timeline) != 1 {
		t.Fatalf("expected the first event embedded, got %d", len(doc.Timeline))
	}
	gotEv := doc.Timeline[0].toDomain(c.ID)
	if gotEv.ID != ev.ID || gotEv.CaseID != c.ID || gotEv.Seq != ev.Seq || gotEv.Kind != ev.Kind ||
		gotEv.AuthorRole != ev.AuthorRole || gotEv.Title != ev.Title || gotEv.Description != ev.Description ||
		!gotEv.Timestamp.Equal(ev.Timestamp) || len(gotEv.AttachmentRefs) != 2 {
		t.Fatalf("event differs: %+v", gotEv)
	}
}

// The $set document must use the same keys the stored document is decoded
// from, otherwise an update silently writes fields nobody reads.
func TestCaseFields_MatchDocumentKeys(t *testing.T) {
	c, ev := sampleCase()
	stored := newMongoCase(c, 1, ev)

	c.Status = domain.StatusFinished
	c.LastNote = "Deferido"
	c.Organ = "JARI"
	raw, err := bson.Marshal(caseFields(c, 2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var set mongoCase
	if err := bson.Unmarshal(raw, &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Immutable attributes are never part of the update.
	set.ID, set.ReferenceCode, set.ClientID, set.CreatedAt = stored.ID, stored.ReferenceCode, stored.ClientID, stored.CreatedAt

	got, err := set.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	assertSameCase(t, c, got)
	if got.Version != 2 {
		t.Fatalf("expected version 2, got %d", got.Version)
	}

	var keys bson.M
	if err := bson.Unmarshal(raw, &keys); err != nil {
		t.Fatalf("unmarshal keys: %v", err)
	}
	for _, k := range []string{"_id", "timeline", "created_at", "client_id"} {
		if _, ok := keys[k]; ok {
			t.Errorf("$set must not write %q", k)
		}
	}
}

func TestMongoCase_BadFee(t *testing.T) {
	if _, err := (mongoCase{ID: "case_x", Fee: "abc"}).toDomain(); err == nil {
		t.Fatal("expected an error for an undecodable fee")
	}
}

func TestMongoUser_RoundTrip(t *testing.T) {
	u := &domain.User{
		ID:                 "usr_01",
		Role:               domain.RoleProfessional,
		Phone:              "+5511999990002",
		Name:               "Dra. Ana",
		LicenseNumber:      "SP 123.456",
		VerificationStatus: domain.VerificationUnderAnalysis,
		CreatedAt:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Version:            4,
	}
	raw, err := bson.Marshal(toMongoUser(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc mongoUser
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := doc.toDomain()
	if got.ID != u.ID || got.Role != u.Role || got.Phone != u.Phone || got.LicenseNumber != u.LicenseNumber ||
		got.VerificationStatus != u.VerificationStatus || got.Version != u.Version || !got.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("user differs: %+v", got)
	}
}
