package filters

import (
	"testing"

	"legal-anonymizer/internal/domain"
)

func TestValidateDropsFailedChecksum(t *testing.T) {
	spans := domain.SpanSet{
		{Kind: domain.KindFiscalCode, Text: "RSSMRA85T10A562A"},
		{Kind: domain.KindFiscalCode, Text: "RSSMRA85T10A562S"},
	}
	kept := Validate(spans)
	if len(kept) != 1 || kept[0].Text != "RSSMRA85T10A562S" {
		t.Errorf("expected only the valid checksum to survive, got %+v", kept)
	}
}

func TestFilterLegalFormulaeDropsCitation(t *testing.T) {
	text := "Ai sensi dell'art. 2043 c.c., Mario Rossi è responsabile."
	start := 19 // offset of "2043"
	end := 23
	spans := domain.SpanSet{
		{Kind: domain.KindDate, Text: "2043", Start: start, End: end},
	}
	kept := FilterLegalFormulae(spans, text)
	if len(kept) != 0 {
		t.Errorf("expected citation number to be filtered, got %+v", kept)
	}
}

func TestFilterLegalFormulaeKeepsUnrelatedSpan(t *testing.T) {
	text := "Mario Rossi abita a Roma da sempre."
	start := 0
	end := 11
	spans := domain.SpanSet{
		{Kind: domain.KindPerson, Text: "Mario Rossi", Start: start, End: end},
	}
	kept := FilterLegalFormulae(spans, text)
	if len(kept) != 1 {
		t.Errorf("expected unrelated span to survive, got %+v", kept)
	}
}

func TestAnnotateSensitivity(t *testing.T) {
	spans := domain.SpanSet{
		{Kind: domain.KindFiscalCode},
		{Kind: domain.KindOrganization},
		{Kind: domain.KindPerson},
	}
	Annotate(spans)
	if spans[0].Metadata.Sensitivity != domain.SensitivityHigh {
		t.Errorf("FISCAL_CODE sensitivity = %v, want HIGH", spans[0].Metadata.Sensitivity)
	}
	if spans[1].Metadata.Sensitivity != domain.SensitivityLow {
		t.Errorf("ORGANIZATION sensitivity = %v, want LOW", spans[1].Metadata.Sensitivity)
	}
	if spans[2].Metadata.Sensitivity != domain.SensitivityMedium {
		t.Errorf("PERSON sensitivity = %v, want MEDIUM", spans[2].Metadata.Sensitivity)
	}
}
