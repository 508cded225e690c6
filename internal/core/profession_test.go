package core_test

import (
	"errors"
	"testing"

	"quotepro/internal/core"
)

func TestGetSchema_UnknownFallsBackToGeneral(t *testing.T) {
	for _, tag := range []string{"", "florist", "GENERAL", "Medical"} {
		s := core.GetSchema(tag)
		if s.Profession != core.ProfessionGeneral {
			t.Errorf("GetSchema(%q) = %s, want general", tag, s.Profession)
		}
		if len(s.Fields) != 0 {
			t.Errorf("general schema should have no extra fields, got %d", len(s.Fields))
		}
	}
}

func TestGetSchema_KnownProfessions(t *testing.T) {
	for _, tag := range core.Professions() {
		if got := core.GetSchema(tag).Profession; got != tag {
			t.Errorf("GetSchema(%q).Profession = %q", tag, got)
		}
	}
}

func TestValidateAttributes(t *testing.T) {
	tests := []struct {
		name       string
		profession string
		attrs      map[string]string
		wantErr    bool
	}{
		{
			name:       "medical complete",
			profession: core.ProfessionMedical,
			attrs:      map[string]string{"patient_name": "J Naidoo", "patient_id": "PAT-001"},
		},
		{
			name:       "medical missing required patient name",
			profession: core.ProfessionMedical,
			attrs:      map[string]string{"patient_id": "PAT-001"},
			wantErr:    true,
		},
		{
			name:       "medical patient name too short",
			profession: core.ProfessionMedical,
			attrs:      map[string]string{"patient_name": "J"},
			wantErr:    true,
		},
		{
			name:       "medical bad icd10 format",
			profession: core.ProfessionMedical,
			attrs:      map[string]string{"patient_name": "J Naidoo", "icd10_code": "not-a-code"},
			wantErr:    true,
		},
		{
			name:       "medical valid icd10",
			profession: core.ProfessionMedical,
			attrs:      map[string]string{"patient_name": "J Naidoo", "icd10_code": "M54.5"},
		},
		{
			name:       "legal case number required",
			profession: core.ProfessionLegal,
			attrs:      map[string]string{"court": "Western Cape High Court"},
			wantErr:    true,
		},
		{
			name:       "accounting bad account code",
			profession: core.ProfessionAccounting,
			attrs:      map[string]string{"account_code": "AB12"},
			wantErr:    true,
		},
		{
			name:       "accounting negative hours rejected",
			profession: core.ProfessionAccounting,
			attrs:      map[string]string{"account_code": "4000", "hours": "-2"},
			wantErr:    true,
		},
		{
			name:       "accounting non-numeric hours rejected",
			profession: core.ProfessionAccounting,
			attrs:      map[string]string{"account_code": "4000", "hours": "two"},
			wantErr:    true,
		},
		{
			name:       "engineering optional cost inputs may be absent",
			profession: core.ProfessionEngineering,
			attrs:      map[string]string{"project_code": "PRJ-2026-04"},
		},
		{
			name:       "general accepts anything",
			profession: core.ProfessionGeneral,
			attrs:      map[string]string{"whatever": "value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.GetSchema(tt.profession).ValidateAttributes(tt.attrs)
			if tt.wantErr {
				if !errors.Is(err, core.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
