package intent

import "regexp"

// rulePattern holds the signals used to score one intent: substring
// keywords, compiled regexes, and a priority weight that scales both.
type rulePattern struct {
	intent   Intent
	keywords []string
	patterns []*regexp.Regexp
	priority float64
}

func mustCompileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

func defaultPatterns() []rulePattern {
	return []rulePattern{
		{
			intent:   Greeting,
			keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "greetings", "start"},
			patterns: mustCompileAll(
				`^(hello|hi|hey|good\s+(morning|afternoon|evening)|greetings?)\b`,
				`^(start|begin|let's start)`,
				`^(how are you|what's up)`,
			),
			priority: 10,
		},
		{
			intent:   SymptomInquiry,
			keywords: []string{"pain", "hurt", "ache", "symptom", "feeling", "sick", "nausea", "fever", "headache", "cough", "sore", "tired", "fatigue", "dizzy", "rash", "swelling", "bleeding", "shortness of breath"},
			patterns: mustCompileAll(
				`\b(pain|hurt|ache|aching)\b`,
				`\b(feeling\s+(sick|unwell|bad|awful|terrible))`,
				`\b(have\s+(symptoms?|fever|headache|cough))`,
				`\b(experiencing\s+)`,
				`\bwhat\s+(is|could\s+be)\s+(wrong|causing)`,
				`\bwhy\s+(do\s+i|am\s+i)\s+(feel|have|experiencing)`,
			),
			priority: 8,
		},
		{
			intent:   TreatmentAdvice,
			keywords: []string{"treatment", "medicine", "medication", "cure", "remedy", "therapy", "heal", "drug", "prescription", "dose", "dosage", "antibiotic", "pill", "tablet"},
			patterns: mustCompileAll(
				`\b(treatment|therapy|cure|remedy)\s+(for|of)`,
				`\b(how\s+to\s+(treat|cure|heal))`,
				`\b(medicine|medication|drug|prescription)\s+(for|to)`,
				`\b(what\s+(medicine|medication|drug|treatment))`,
				`\b(dosage|dose|how\s+much)`,
			),
			priority: 7,
		},
		{
			intent:   HospitalSearch,
			keywords: []string{"hospital", "clinic", "doctor", "physician", "medical center", "emergency room", "urgent care", "specialist", "near me", "nearby", "location", "address"},
			patterns: mustCompileAll(
				`\b(hospital|clinic|medical\s+center)\s+(near|nearby|close)`,
				`\b(find\s+(hospital|clinic|doctor|physician))`,
				`\b(where\s+(is|can\s+i\s+find)\s+(hospital|clinic|doctor))`,
				`\b(emergency\s+room|urgent\s+care)`,
				`\b(near\s+me|nearby|in\s+my\s+area)`,
			),
			priority: 6,
		},
		{
			intent:   DepartmentInquiry,
			keywords: []string{"specialist", "department", "cardiology", "neurology", "dermatology", "orthopedic", "pediatric", "oncology", "psychiatry", "gynecology", "urology"},
			patterns: mustCompileAll(
				`\b(what\s+(specialist|department))`,
				`\b(which\s+(doctor|specialist))`,
				`\b(should\s+i\s+see\s+(a|an))\s+(specialist|doctor)`,
				`\b(cardiology|neurology|dermatology|orthopedic|pediatric|oncology|psychiatry|gynecology|urology)\b`,
			),
			priority: 5,
		},
		{
			intent:   DeepMedicalInquiry,
			keywords: []string{"research", "study", "clinical trial", "breakthrough", "latest", "recent", "new research", "medical advance", "scientific", "publication"},
			patterns: mustCompileAll(
				`\b(latest|recent|new)\s+(research|study|breakthrough|advance)`,
				`\b(clinical\s+trial|medical\s+study)`,
				`\b(scientific\s+(evidence|publication|paper))`,
				`\b(research\s+(shows|indicates|suggests))`,
				`\b(what\s+(does|do)\s+(research|studies)\s+say)`,
			),
			priority: 4,
		},
		{
			intent:   UnbiasedFactualRequest,
			keywords: []string{"facts", "evidence", "pros and cons", "advantages", "disadvantages", "unbiased", "objective", "compare", "comparison", "versus", "vs"},
			patterns: mustCompileAll(
				`\b(pros\s+and\s+cons|advantages?\s+and\s+disadvantages?)`,
				`\b(unbiased|objective|neutral)\s+(view|information|facts)`,
				`\b(compare|comparison|versus|vs)\b`,
				`\b(fact|facts|evidence)\s+(about|on)`,
				`\b(what\s+are\s+the\s+(facts|pros|cons))`,
			),
			priority: 3,
		},
		{
			intent:   ComprehensiveHealthAssessment,
			keywords: []string{"complete", "comprehensive", "full", "thorough", "assessment", "evaluation", "checkup", "analysis", "overall health", "general health"},
			patterns: mustCompileAll(
				`\b(complete|comprehensive|full|thorough)\s+(assessment|evaluation|checkup|analysis)`,
				`\b(overall|general)\s+health\s+(assessment|evaluation|check)`,
				`\b(health\s+(assessment|evaluation|analysis))`,
				`\b(assess\s+my\s+(health|condition))`,
				`\b(thorough\s+(evaluation|assessment))`,
			),
			priority: 2,
		},
	}
}
