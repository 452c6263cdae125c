package strategy

import (
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/intent"
)

// Registry is the fixed intent-to-strategy dispatch table, built once at
// startup. Unmapped intents resolve to the medicine strategy.
type Registry struct {
	table    map[intent.Intent]Strategy
	fallback Strategy
}

// NewRegistry wires every strategy against the given gateway. The
// comprehensive-assessment and unknown intents share the medicine flow,
// which covers general health questions safely.
func NewRegistry(gateway Generator) *Registry {
	medicine := NewMedicine(gateway)

	return &Registry{
		table: map[intent.Intent]Strategy{
			intent.Greeting:                      NewGreeting(gateway),
			intent.SymptomInquiry:                medicine,
			intent.TreatmentAdvice:               medicine,
			intent.HospitalSearch:                NewHospital(gateway),
			intent.DepartmentInquiry:             NewDepartment(gateway),
			intent.DeepMedicalInquiry:            NewResearch(gateway),
			intent.UnbiasedFactualRequest:        NewUnbiased(gateway),
			intent.ComprehensiveHealthAssessment: medicine,
		},
		fallback: medicine,
	}
}

// Resolve returns the strategy for an intent, or the safe default for
// anything unmapped.
func (r *Registry) Resolve(in intent.Intent) Strategy {
	if s, ok := r.table[in]; ok {
		return s
	}
	return r.fallback
}
