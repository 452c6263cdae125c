// Package intent classifies user queries into the routing intents the
// chat pipeline dispatches on.
package intent

// Intent is a routing label for a user query.
type Intent string

const (
	Greeting                      Intent = "greeting"
	SymptomInquiry                Intent = "symptom_inquiry"
	TreatmentAdvice               Intent = "treatment_advice"
	HospitalSearch                Intent = "hospital_search"
	DepartmentInquiry             Intent = "department_inquiry"
	DeepMedicalInquiry            Intent = "deep_medical_inquiry"
	UnbiasedFactualRequest        Intent = "unbiased_factual_request"
	ComprehensiveHealthAssessment Intent = "comprehensive_health_assessment"
	Unknown                       Intent = "unknown"
)

// labelOrder fixes the order labels are considered in wherever a choice
// between them has to be deterministic.
var labelOrder = []Intent{
	Greeting,
	SymptomInquiry,
	TreatmentAdvice,
	HospitalSearch,
	DepartmentInquiry,
	DeepMedicalInquiry,
	UnbiasedFactualRequest,
	ComprehensiveHealthAssessment,
	Unknown,
}

var known = map[Intent]bool{
	Greeting:                      true,
	SymptomInquiry:                true,
	TreatmentAdvice:               true,
	HospitalSearch:                true,
	DepartmentInquiry:             true,
	DeepMedicalInquiry:            true,
	UnbiasedFactualRequest:        true,
	ComprehensiveHealthAssessment: true,
	Unknown:                       true,
}

// IsKnown reports whether i is one of the recognized routing labels.
func (i Intent) IsKnown() bool {
	return known[i]
}

func (i Intent) String() string {
	return string(i)
}

// Coerce maps an arbitrary label to a usable routing intent. Unknown or
// unrecognized labels fall back to symptom inquiry, the safest default
// for a medical assistant.
func Coerce(label string) Intent {
	in := Intent(label)
	if !in.IsKnown() || in == Unknown {
		return SymptomInquiry
	}
	return in
}
