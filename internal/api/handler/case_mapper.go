package handler

import (
	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

func toFines(in []fineRequest) []domain.Fine {
	if in == nil {
		return nil
	}
	out := make([]domain.Fine, len(in))
	for i, f := range in {
		out[i] = domain.Fine{Points: f.Points, EvidenceRef: f.EvidenceRef, DocumentName: f.DocumentName}
	}
	return out
}

func toSubmitInput(req submitCaseRequest) ports.SubmitCaseInput {
	return ports.SubmitCaseInput{Type: req.Type, Fines: toFines(req.Fines), Narrative: req.Narrative}
}

func toUpdateInput(req updateCaseRequest) ports.UpdateCaseInput {
	return ports.UpdateCaseInput{Type: req.Type, Fines: toFines(req.Fines), Narrative: req.Narrative}
}

func toRecordStatusInput(req recordStatusRequest) ports.RecordStatusInput {
	return ports.RecordStatusInput{
		Label:          req.Label,
		Narrative:      req.Narrative,
		EvidenceRefs:   req.EvidenceRefs,
		RegistryNumber: req.RegistryNumber,
		Organ:          req.Organ,
	}
}

func linksFor(id string) caseLinks {
	return caseLinks{Self: "/v1/cases/" + id, Timeline: "/v1/cases/" + id + "/timeline"}
}

func toCaseResponse(c *domain.Case) caseResponse {
	fines := c.Fines
	if fines == nil {
		fines = []domain.Fine{}
	}
	return caseResponse{
		ID:             c.ID,
		ReferenceCode:  c.ReferenceCode,
		ClientID:       c.ClientID,
		ClientName:     c.ClientName,
		ProfessionalID: c.ProfessionalID,
		Type:           string(c.Type),
		Fines:          fines,
		TotalPoints:    c.TotalPoints,
		Fee:            c.Fee.StringFixed(2),
		Status:         string(c.Status),
		Narrative:      c.Narrative,
		RegistryNumber: c.RegistryNumber,
		Organ:          c.Organ,
		LastNote:       c.LastNote,
		CreatedAt:      formatTime(c.CreatedAt),
		UpdatedAt:      formatTime(c.UpdatedAt),
		Links:          linksFor(c.ID),
	}
}

func toCaseList(cases []*domain.Case) caseListResponse {
	items := make([]caseResponse, len(cases))
	for i, c := range cases {
		items[i] = toCaseResponse(c)
	}
	return caseListResponse{Items: items, Count: len(items)}
}

func toWalletResponse(s *domain.WalletStats) walletResponse {
	return walletResponse{
		ProfessionalID: s.ProfessionalID,
		TotalAccepted:  s.TotalAccepted.StringFixed(2),
		Retained:       s.Retained.StringFixed(2),
		Receivable:     s.Receivable.StringFixed(2),
		RetainedRate:   s.RetainedRate.String(),
		ActiveCount:    s.ActiveCount,
		FinishedCount:  s.FinishedCount,
		TotalCount:     s.TotalCount,
	}
}
